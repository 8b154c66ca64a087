// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the judge sync workers and the standings tool.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
