package data

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/framepipe/pkg/database/dbconn"
	"github.com/tauraamui/framepipe/pkg/database/models"
	"github.com/tauraamui/framepipe/pkg/database/repos"
	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	vendorName       = "tacusci"
	appName          = "framepipe"
	databaseFileName = "fp.db"
	databaseEnvKey   = "FRAMEPIPE_DB"
)

var (
	ErrCreateDBFile    = errors.New("unable to create database file")
	ErrDBAlreadyExists = errors.New("database file already exists")
)

var uc = os.UserCacheDir
var fs = afero.NewOsFs()

func Setup() error {
	log.Info("Creating database file...") //nolint

	if err := createFile(); err != nil {
		return err
	}

	if _, err := Connect(); err != nil {
		return err
	}

	log.Info("Created session journal database") //nolint
	return nil
}

func Destroy() error {
	dbFilePath, err := resolveDBPath(uc)
	if err != nil {
		return xerror.Errorf("unable to delete database file: %w", err)
	}

	return fs.Remove(dbFilePath)
}

func Connect() (dbconn.GormWrapper, error) {
	dbPath, err := resolveDBPath(uc)
	if err != nil {
		return nil, err
	}

	log.Debug("Connecting to DB: %s", dbPath) //nolint
	db, err := openDBConnection(dbPath)
	if err != nil {
		return nil, xerror.Errorf("unable to open db connection: %w", err)
	}

	err = models.AutoMigrate(db)
	if err != nil {
		return nil, xerror.Errorf("unable to run automigrations: %w", err)
	}

	return db, nil
}

// SessionJournal connects to the database and returns the repository
// pipeline sessions are recorded into.
func SessionJournal() (*repos.SessionRepository, error) {
	db, err := Connect()
	if err != nil {
		return nil, err
	}
	return &repos.SessionRepository{DB: db}, nil
}

var openDBConnection = func(path string) (dbconn.GormWrapper, error) {
	logger := logger.New(nil, logger.Config{LogLevel: logger.Silent})
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	return dbconn.Wrap(db), nil
}

func resolveDBPath(uc func() (string, error)) (string, error) {
	databasePath := os.Getenv(databaseEnvKey)
	if len(databasePath) > 0 {
		return databasePath, nil
	}

	databaseParentDir, err := uc()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s database file location: %w", databaseFileName, err)
	}

	return filepath.Join(
		databaseParentDir,
		vendorName,
		appName,
		databaseFileName), nil
}

func createFile() error {
	path, err := resolveDBPath(uc)
	if err != nil {
		return err
	}

	if _, err := fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm) //nolint

		file, err := fs.Create(path)
		if err != nil {
			return xerror.Errorf("%w: %w", ErrCreateDBFile, err)
		}
		return file.Close()
	}

	return xerror.Errorf("%w: %s", ErrDBAlreadyExists, path)
}
