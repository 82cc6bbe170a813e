// ABOUTME: Endpoint wrappers for dashboard, homework, notifications, messages and schedule
// ABOUTME: Each wrapper POSTs a fixed JSON body and returns the parsed JSON response

package webtop

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Portal API paths.
const (
	PathInitDashboard              = "/server/api/dashboard/InitDashboard"
	PathHomework                   = "/server/api/dashboard/GetHomeWork"
	PathDisciplineEvents           = "/server/api/dashboard/GetPupilDiciplineEvents"
	PathPreviewUnreadNotifications = "/server/api/Menu/GetPreviewUnreadNotifications"
	PathNotificationSettings       = "/server/api/Notification/GetNotificationsSettings"
	PathMessagesInbox              = "/server/api/messageBox/GetMessagesInbox"
	PathPupilSchedule              = "/server/api/PupilCard/GetPupilScheduale"
)

// postJSON sends an authenticated POST and decodes the response body.
func (c *Client) postJSON(ctx context.Context, path string, body any) (gjson.Result, error) {
	resp, err := c.Request(ctx, http.MethodPost, path, body)
	if err != nil {
		return gjson.Result{}, err
	}
	result, err := resp.JSON()
	if err != nil {
		return gjson.Result{}, fmt.Errorf("POST %s: %w", path, err)
	}
	return result, nil
}

type emptyBody struct{}

// GetStudents loads the dashboard, which lists the children visible to the account.
func (c *Client) GetStudents(ctx context.Context) (gjson.Result, error) {
	return c.postJSON(ctx, PathInitDashboard, emptyBody{})
}

type homeworkRequest struct {
	ID          string `json:"id"`
	ClassCode   int    `json:"ClassCode"`
	ClassNumber int    `json:"ClassNumber"`
}

// GetHomework returns homework for a student's class.
func (c *Client) GetHomework(ctx context.Context, encryptedStudentID string, classCode, classNumber int) (gjson.Result, error) {
	return c.postJSON(ctx, PathHomework, homeworkRequest{
		ID:          encryptedStudentID,
		ClassCode:   classCode,
		ClassNumber: classNumber,
	})
}

type disciplineRequest struct {
	ID        string `json:"id"`
	ClassCode int    `json:"ClassCode"`
}

// GetDisciplineEvents returns behaviour events recorded for a student.
func (c *Client) GetDisciplineEvents(ctx context.Context, encryptedStudentID string, classCode int) (gjson.Result, error) {
	return c.postJSON(ctx, PathDisciplineEvents, disciplineRequest{
		ID:        encryptedStudentID,
		ClassCode: classCode,
	})
}

// GetPreviewUnreadNotifications returns the unread notification preview shown in the menu.
func (c *Client) GetPreviewUnreadNotifications(ctx context.Context) (gjson.Result, error) {
	return c.postJSON(ctx, PathPreviewUnreadNotifications, emptyBody{})
}

type notificationSettingsRequest struct {
	ID string `json:"id"`
}

// GetNotificationSettings returns the notification settings for a student.
func (c *Client) GetNotificationSettings(ctx context.Context, encryptedStudentID string) (gjson.Result, error) {
	return c.postJSON(ctx, PathNotificationSettings, notificationSettingsRequest{ID: encryptedStudentID})
}

// InboxRequest is the body of the inbox call.
type InboxRequest struct {
	PageID      int    `json:"PageId"`
	LabelID     int    `json:"LabelId"`
	HasRead     *bool  `json:"HasRead"`
	SearchQuery string `json:"SearchQuery"`
}

// InboxOption narrows an inbox query.
type InboxOption func(*InboxRequest)

// WithPage selects a 1-based page.
func WithPage(page int) InboxOption {
	return func(r *InboxRequest) { r.PageID = page }
}

// WithLabel selects a message label.
func WithLabel(label int) InboxOption {
	return func(r *InboxRequest) { r.LabelID = label }
}

// WithReadFilter keeps only read (true) or unread (false) messages.
func WithReadFilter(read bool) InboxOption {
	return func(r *InboxRequest) { r.HasRead = &read }
}

// WithSearchQuery filters messages by free text.
func WithSearchQuery(query string) InboxOption {
	return func(r *InboxRequest) { r.SearchQuery = query }
}

// NewInboxRequest applies opts over the defaults: page 1, label 0, no read filter, empty query.
func NewInboxRequest(opts ...InboxOption) InboxRequest {
	req := InboxRequest{PageID: 1}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// GetMessagesInbox returns one page of the message box.
func (c *Client) GetMessagesInbox(ctx context.Context, opts ...InboxOption) (gjson.Result, error) {
	return c.postJSON(ctx, PathMessagesInbox, NewInboxRequest(opts...))
}

// ScheduleRequest is the body of the timetable call.
type ScheduleRequest struct {
	WeekIndex int    `json:"weekIndex"`
	ViewType  int    `json:"viewType"`
	StudyYear int    `json:"studyYear"`
	StudentID string `json:"studentID"`
	ClassCode int    `json:"classCode"`
	ModuleID  int    `json:"moduleID"`
}

// ScheduleOption adjusts a timetable query.
type ScheduleOption func(*ScheduleRequest)

// WithWeekIndex selects a week offset; 0 is the current week.
func WithWeekIndex(week int) ScheduleOption {
	return func(r *ScheduleRequest) { r.WeekIndex = week }
}

// WithViewType selects the portal view type.
func WithViewType(view int) ScheduleOption {
	return func(r *ScheduleRequest) { r.ViewType = view }
}

// WithModuleID selects the portal module.
func WithModuleID(module int) ScheduleOption {
	return func(r *ScheduleRequest) { r.ModuleID = module }
}

// GetPupilSchedule returns a student's timetable. Week index and view type default to 0, module to 10.
func (c *Client) GetPupilSchedule(ctx context.Context, studyYear int, encryptedStudentID string, classCode int, opts ...ScheduleOption) (gjson.Result, error) {
	req := ScheduleRequest{
		StudyYear: studyYear,
		StudentID: encryptedStudentID,
		ClassCode: classCode,
		ModuleID:  10,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return c.postJSON(ctx, PathPupilSchedule, req)
}
