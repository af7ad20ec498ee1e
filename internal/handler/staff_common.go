package handler

import (
	"github.com/plzfm/song-request-kiosk/internal/repository"
	"github.com/plzfm/song-request-kiosk/internal/service"
)

// StaffHandler groups the repositories and services behind the
// authenticated staff surface: catalog loading, the print queue, the
// blocklist and administrative deletes. All methods assume StaffAuth
// middleware has already validated the caller.
type StaffHandler struct {
	ShowRepo   *repository.ShowRepo
	CrateRepo  *repository.CrateRepo
	ArtistRepo *repository.ArtistRepo
	SongRepo   *repository.SongRepo
	BlockRepo  *repository.BlocklistRepo
	TicketRepo *repository.TicketRepo
	Dispatcher *service.Dispatcher
}

// NewStaffHandler constructs a StaffHandler with the provided
// dependencies. All of them must be non-nil.
func NewStaffHandler(
	showRepo *repository.ShowRepo,
	crateRepo *repository.CrateRepo,
	artistRepo *repository.ArtistRepo,
	songRepo *repository.SongRepo,
	blockRepo *repository.BlocklistRepo,
	ticketRepo *repository.TicketRepo,
	dispatcher *service.Dispatcher,
) *StaffHandler {
	if showRepo == nil || crateRepo == nil || artistRepo == nil || songRepo == nil ||
		blockRepo == nil || ticketRepo == nil || dispatcher == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{
		ShowRepo:   showRepo,
		CrateRepo:  crateRepo,
		ArtistRepo: artistRepo,
		SongRepo:   songRepo,
		BlockRepo:  blockRepo,
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
	}
}
