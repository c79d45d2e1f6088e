package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
	"github.com/noah-isme/confsched-api/pkg/export"
)

var agendaExportHeaders = []string{"Group", "Day", "Start", "Duration", "Room", "Slot", "Badness"}

// AgendaService renders schedules as the group-by-group view reporting
// consumers read, and exports it as CSV or PDF.
type AgendaService struct {
	schedules assignmentStore
	meetings  meetingReader
	slots     timeslotReader
	sessions  sessionLister
	rooms     roomReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewAgendaService constructs AgendaService.
func NewAgendaService(schedules assignmentStore, meetings meetingReader, slots timeslotReader, sessions sessionLister, rooms roomReader, logger *zap.Logger) *AgendaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgendaService{
		schedules: schedules,
		meetings:  meetings,
		slots:     slots,
		sessions:  sessions,
		rooms:     rooms,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Agenda builds the group-to-placements view of one schedule. Groups with
// an eligible session but no placement are listed as unplaced.
func (s *AgendaService) Agenda(ctx context.Context, scheduleID string) (*dto.Agenda, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	rows, err := s.schedules.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	sessions, err := s.sessions.ListByMeeting(ctx, schedule.MeetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	slots, err := s.slots.ListByMeeting(ctx, schedule.MeetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	rooms, err := s.rooms.ListByMeeting(ctx, schedule.MeetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	sessionsByID := make(map[string]models.Session, len(sessions))
	for _, session := range sessions {
		sessionsByID[session.ID] = session
	}
	slotsByID := make(map[string]models.TimeSlot, len(slots))
	for _, slot := range slots {
		slotsByID[slot.ID] = slot
	}
	roomsByID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		roomsByID[room.ID] = room
	}

	agenda := &dto.Agenda{
		ScheduleID: scheduleID,
		MeetingID:  schedule.MeetingID,
		Groups:     make(map[string][]dto.AgendaRow),
	}
	placedGroups := make(map[string]bool)
	for _, row := range rows {
		if !row.Placed() {
			continue
		}
		session, ok := sessionsByID[*row.SessionID]
		if !ok || !session.Status.Eligible() {
			continue
		}
		slot, ok := slotsByID[row.TimeSlotID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrDataIntegrity, "assignment references unknown timeslot "+row.TimeSlotID)
		}
		roomName := ""
		if slot.RoomID != nil {
			roomName = roomsByID[*slot.RoomID].Name
		}
		agenda.Groups[session.Group] = append(agenda.Groups[session.Group], dto.AgendaRow{
			Group:       session.Group,
			SessionID:   session.ID,
			TimeSlotID:  slot.ID,
			SlotName:    slot.Name,
			Room:        roomName,
			StartTime:   slot.StartTime,
			DurationMin: slot.DurationMin,
			Pinned:      row.Pinned,
			Badness:     row.Badness,
		})
		placedGroups[session.Group] = true
	}
	for group := range agenda.Groups {
		rows := agenda.Groups[group]
		sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime.Before(rows[j].StartTime) })
	}
	for _, session := range sessions {
		if session.Status.Eligible() && !placedGroups[session.Group] {
			agenda.Unplaced = append(agenda.Unplaced, session.Group)
			placedGroups[session.Group] = true
		}
	}
	sort.Strings(agenda.Unplaced)
	return agenda, nil
}

// OfficialAgenda resolves a meeting's designated schedule and renders it.
func (s *AgendaService) OfficialAgenda(ctx context.Context, meetingID string) (*dto.Agenda, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if meeting.AgendaID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting has no official agenda")
	}
	return s.Agenda(ctx, *meeting.AgendaID)
}

// ExportCSV renders the agenda of one schedule as CSV.
func (s *AgendaService) ExportCSV(ctx context.Context, scheduleID string) ([]byte, error) {
	agenda, err := s.Agenda(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(export.Dataset{Columns: agendaExportHeaders, Records: agendaDataset(agenda)})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// ExportPDF renders the agenda of one schedule as a tabular PDF.
func (s *AgendaService) ExportPDF(ctx context.Context, scheduleID string) ([]byte, error) {
	agenda, err := s.Agenda(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	title := "Agenda " + agenda.ScheduleID
	data, err := s.pdf.Render(export.Dataset{Columns: agendaExportHeaders, Records: agendaDataset(agenda)}, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

// agendaDataset flattens the agenda into export records matching
// agendaExportHeaders: groups in alphabetical order, each group's
// placements in time order, unplaced groups last.
func agendaDataset(agenda *dto.Agenda) [][]string {
	groups := make([]string, 0, len(agenda.Groups))
	for group := range agenda.Groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	var out [][]string
	for _, group := range groups {
		for _, row := range agenda.Groups[group] {
			out = append(out, []string{
				row.Group,
				row.StartTime.Format("Mon 2006-01-02"),
				row.StartTime.Format("15:04"),
				fmt.Sprintf("%d min", row.DurationMin),
				row.Room,
				row.SlotName,
				fmt.Sprintf("%d", row.Badness),
			})
		}
	}
	for _, group := range agenda.Unplaced {
		out = append(out, []string{group, "", "", "", "", "unplaced", ""})
	}
	return out
}
