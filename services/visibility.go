package services

import (
	"github.com/netineti-netineti/AtomicAds/models"

	"gorm.io/gorm"
)

// VisibilityResolver maps an alert's visibility scope to the concrete
// set of recipient users. It only reads the directory, never writes,
// and is safe to call concurrently.
type VisibilityResolver struct {
	db *gorm.DB
}

func NewVisibilityResolver(db *gorm.DB) *VisibilityResolver {
	return &VisibilityResolver{db: db}
}

// Resolve returns the recipients of alert, deduplicated by user ID and
// ordered by ID so repeated calls are deterministic. Org-wide scope
// wins over any team or user lists; an empty scope yields no one.
func (r *VisibilityResolver) Resolve(alert *models.Alert) ([]models.User, error) {
	vis := alert.Visibility
	if vis.Org {
		var users []models.User
		if err := r.db.Order("id").Find(&users).Error; err != nil {
			return nil, err
		}
		return users, nil
	}

	ids := make(map[uint]struct{}, len(vis.Users))
	for _, id := range vis.Users {
		ids[id] = struct{}{}
	}

	if len(vis.Teams) > 0 {
		var members []models.User
		if err := r.db.Where("team_id IN ?", vis.Teams).Find(&members).Error; err != nil {
			return nil, err
		}
		for _, u := range members {
			ids[u.ID] = struct{}{}
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	wanted := make([]uint, 0, len(ids))
	for id := range ids {
		wanted = append(wanted, id)
	}

	var users []models.User
	if err := r.db.Where("id IN ?", wanted).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
