package models

type Model interface{}

type migrator interface {
	AutoMigrate(...interface{}) error
}

var models = []Model{}

func AutoMigrate(db migrator) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

func registerForAutomigration(m Model) {
	models = append(models, m)
}
