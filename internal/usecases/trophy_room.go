package usecases

import (
	"context"
	"time"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/trophy"
	"icp-hunter/pkg/log"
)

// SeedSource is the Trophy Room source recorded for seeded profiles.
const SeedSource = "seed"

// TrophyRoomUseCase exposes the Trophy Room operations.
type TrophyRoomUseCase struct {
	room *trophy.Room
	now  func() time.Time
}

// NewTrophyRoomUseCase wraps room.
func NewTrophyRoomUseCase(room *trophy.Room) *TrophyRoomUseCase {
	return &TrophyRoomUseCase{room: room, now: time.Now}
}

// Seed fills the room with count previously saved profiles.
func (uc *TrophyRoomUseCase) Seed(ctx context.Context, gen SavedProfileGenerator, count int) error {
	profiles, err := gen.GenerateSaved(count, uc.now())
	if err != nil {
		return err
	}
	added := uc.room.Bag(SeedSource, profiles, uc.now())
	log.GlobalInfoCtx(ctx, "trophy room seeded", "profiles", added)
	return nil
}

// Bag saves profiles found by a hunt.
func (uc *TrophyRoomUseCase) Bag(ctx context.Context, huntID string, profiles []domain.Profile) int {
	added := uc.room.Bag(huntID, profiles, uc.now())
	log.GlobalInfoCtx(ctx, "profiles bagged", "hunt_id", huntID, "selected", len(profiles), "added", added)
	return added
}

// Len returns the number of saved profiles.
func (uc *TrophyRoomUseCase) Len() int {
	return uc.room.Len()
}

// ActiveList identifies the list the room is filtered by.
type ActiveList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrophyView is the Trophy Room page.
type TrophyView struct {
	Profiles   []trophy.Saved     `json:"profiles"`
	Total      int                `json:"total"`
	Lists      []domain.NamedList `json:"lists"`
	ActiveList ActiveList         `json:"activeList"`
}

// Browse queries the saved profiles.
func (uc *TrophyRoomUseCase) Browse(ctx context.Context, q trophy.Query) TrophyView {
	profiles := uc.room.Query(q)
	if profiles == nil {
		profiles = []trophy.Saved{}
	}
	id, name := uc.room.ActiveList()
	return TrophyView{
		Profiles:   profiles,
		Total:      uc.room.Len(),
		Lists:      uc.room.Lists(),
		ActiveList: ActiveList{ID: id, Name: name},
	}
}

// Remove deletes saved profiles by key.
func (uc *TrophyRoomUseCase) Remove(ctx context.Context, keys []string) int {
	removed := uc.room.Remove(keys)
	log.GlobalInfoCtx(ctx, "trophies removed", "requested", len(keys), "removed", removed)
	return removed
}

// CreateList adds a named list.
func (uc *TrophyRoomUseCase) CreateList(ctx context.Context, name, description string) (domain.NamedList, error) {
	list, err := uc.room.CreateList(name, description, uc.now())
	if err != nil {
		return domain.NamedList{}, err
	}
	log.GlobalInfoCtx(ctx, "list created", "list_id", list.ID)
	return list, nil
}

// AddToList merges saved profiles into a list.
func (uc *TrophyRoomUseCase) AddToList(ctx context.Context, listID string, keys []string) (domain.NamedList, error) {
	return uc.room.AddToList(listID, keys)
}

// DeleteList removes a list, clearing the filter if it was active.
func (uc *TrophyRoomUseCase) DeleteList(ctx context.Context, listID string) error {
	if err := uc.room.DeleteList(listID); err != nil {
		return err
	}
	log.GlobalInfoCtx(ctx, "list deleted", "list_id", listID)
	return nil
}

// SetActiveList filters the room by a list, or by all profiles.
func (uc *TrophyRoomUseCase) SetActiveList(ctx context.Context, listID string) (ActiveList, error) {
	if err := uc.room.SetActiveList(listID); err != nil {
		return ActiveList{}, err
	}
	id, name := uc.room.ActiveList()
	return ActiveList{ID: id, Name: name}, nil
}
