// ABOUTME: Tests for the endpoint wrappers
// ABOUTME: Verifies paths, request bodies, defaults and parsed responses

package webtop

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/webtop/webtop/webtoptest"
)

func TestEndpoints_RequestBodies(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(ctx context.Context, c *Client) error
		want string
	}{
		{
			name: "students",
			path: PathInitDashboard,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetStudents(ctx); return err },
			want: `{}`,
		},
		{
			name: "homework",
			path: PathHomework,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetHomework(ctx, "E1", 5, 2); return err },
			want: `{"id":"E1","ClassCode":5,"ClassNumber":2}`,
		},
		{
			name: "discipline events",
			path: PathDisciplineEvents,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetDisciplineEvents(ctx, "E1", 5); return err },
			want: `{"id":"E1","ClassCode":5}`,
		},
		{
			name: "preview unread notifications",
			path: PathPreviewUnreadNotifications,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetPreviewUnreadNotifications(ctx); return err },
			want: `{}`,
		},
		{
			name: "notification settings",
			path: PathNotificationSettings,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetNotificationSettings(ctx, "E1"); return err },
			want: `{"id":"E1"}`,
		},
		{
			name: "inbox defaults",
			path: PathMessagesInbox,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetMessagesInbox(ctx); return err },
			want: `{"PageId":1,"LabelId":0,"HasRead":null,"SearchQuery":""}`,
		},
		{
			name: "inbox filtered",
			path: PathMessagesInbox,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.GetMessagesInbox(ctx, WithPage(3), WithLabel(2), WithReadFilter(false), WithSearchQuery("trip"))
				return err
			},
			want: `{"PageId":3,"LabelId":2,"HasRead":false,"SearchQuery":"trip"}`,
		},
		{
			name: "schedule defaults",
			path: PathPupilSchedule,
			call: func(ctx context.Context, c *Client) error { _, err := c.GetPupilSchedule(ctx, 2026, "E1", 5); return err },
			want: `{"weekIndex":0,"viewType":0,"studyYear":2026,"studentID":"E1","classCode":5,"moduleID":10}`,
		},
		{
			name: "schedule overrides",
			path: PathPupilSchedule,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.GetPupilSchedule(ctx, 2026, "E1", 5, WithWeekIndex(-1), WithViewType(1), WithModuleID(4))
				return err
			},
			want: `{"weekIndex":-1,"viewType":1,"studyYear":2026,"studentID":"E1","classCode":5,"moduleID":4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := webtoptest.NewServer(t)
			srv.HandleJSON(tt.path, http.StatusOK, `{"status":true,"data":[]}`)
			c := newTestClient(t, srv)

			require.NoError(t, tt.call(context.Background(), c))

			reqs := srv.RequestsTo(tt.path)
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodPost, reqs[0].Method)
			assert.Equal(t, webtoptest.Token, reqs[0].Token)
			assert.JSONEq(t, tt.want, reqs[0].Body.Raw)
		})
	}
}

func TestGetMessagesInbox_ReturnsPayload(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(PathMessagesInbox, http.StatusOK, `{
		"status": true,
		"data": [
			{"subject": "Trip", "senderName": "Teacher", "sendingDate": "2026-01-01"},
			{"subject": "Exam", "student_F_name": "Dan", "student_L_name": "Levi"}
		]
	}`)
	c := newTestClient(t, srv)

	result, err := c.GetMessagesInbox(context.Background())
	require.NoError(t, err)

	messages := result.Get("data").Array()
	require.Len(t, messages, 2)
	assert.Equal(t, "Trip", messages[0].Get("subject").String())
	assert.Equal(t, "Levi", messages[1].Get("student_L_name").String())
}

func TestNewInboxRequest_Defaults(t *testing.T) {
	req := NewInboxRequest()
	assert.Equal(t, InboxRequest{PageID: 1}, req)
	assert.Nil(t, req.HasRead)

	read := NewInboxRequest(WithReadFilter(true))
	require.NotNil(t, read.HasRead)
	assert.True(t, *read.HasRead)
}
