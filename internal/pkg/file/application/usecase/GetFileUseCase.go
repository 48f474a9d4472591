package usecase

import (
	"youchat/internal/pkg/state"

	apperrors "youchat/pkg/errors"
)

// GetFileUseCase resolves a file record for a member-gated download.
type GetFileUseCase struct {
	Store *state.Store
}

func NewGetFileUseCase(store *state.Store) *GetFileUseCase {
	return &GetFileUseCase{Store: store}
}

func (uc *GetFileUseCase) Execute(fileID, requesterID string) (*state.FileRecord, error) {
	var record *state.FileRecord
	var err error
	uc.Store.View(func(d *state.Document) {
		for _, f := range d.Files {
			if f.ID != fileID {
				continue
			}
			for _, c := range d.Conversations {
				if c.ID == f.ConversationID {
					if !c.HasMember(requesterID) {
						err = apperrors.ErrNotConversationMember
						return
					}
					cp := *f
					record = &cp
					return
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NotFound("file not found")
	}
	return record, nil
}
