package repos

import (
	"github.com/tauraamui/framepipe/pkg/database/dbconn"
	"github.com/tauraamui/framepipe/pkg/database/models"
	"github.com/tauraamui/framepipe/pkg/pipeline"
	"github.com/tauraamui/xerror"
)

// SessionRepository journals stopped pipeline sessions.
type SessionRepository struct {
	DB dbconn.GormWrapper
}

func (r *SessionRepository) Create(session *models.Session) error {
	return r.DB.Create(session).Error()
}

func (r *SessionRepository) Record(summary pipeline.Summary) error {
	session := models.Session{
		UUID:       summary.ID,
		Width:      summary.Width,
		Height:     summary.Height,
		Capacity:   summary.Capacity,
		StartedAt:  summary.StartedAt,
		StoppedAt:  summary.StoppedAt,
		Produced:   summary.Produced,
		Consumed:   summary.Consumed,
		Drained:    summary.Drained,
		ProducerOK: summary.ProducerOK,
		Error:      summary.Error,
	}
	if err := r.Create(&session); err != nil {
		return xerror.Errorf("unable to record session %s: %w", summary.ID, err)
	}
	return nil
}

func (r *SessionRepository) FindByUUID(uuid string) (models.Session, error) {
	session := models.Session{}
	if err := r.DB.Where("uuid = ?", uuid).First(&session).Error(); err != nil {
		return session, xerror.Errorf("session of uuid %s not found", uuid)
	}

	return session, nil
}
