package models

import "gorm.io/gorm"

// All lists every model AutoMigrate manages.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&QuestionTag{},
		&Question{},
		&Contest{},
		&ContestQuestion{},
		&GroupOnContest{},
		&Submission{},
		&Feedback{},
	}
}

// GormConfig is shared by the service and the tests. Users and groups
// reference each other, so foreign keys are left to the application.
func GormConfig() *gorm.Config {
	return &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
