// ABOUTME: Linked-account discovery and student switching
// ABOUTME: Lets a parent account move its session between linked students

package webtop

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	PathLinkedStudents = "/server/api/dashboard/GetMultipleUsersForUser"
	PathSwitchStudent  = "/server/api/dashboard/SetUserFromMultipleUsers"
)

// LinkedStudent is one account reachable from the logged-in user.
type LinkedStudent struct {
	StudentID    string
	StudentLogin string
	SchoolName   string
	Raw          gjson.Result
}

// GetLinkedStudents lists the student accounts linked to the current login.
func (c *Client) GetLinkedStudents(ctx context.Context) ([]LinkedStudent, error) {
	result, err := c.postJSON(ctx, PathLinkedStudents, emptyBody{})
	if err != nil {
		return nil, err
	}

	var students []LinkedStudent
	result.Get("data").ForEach(func(_, item gjson.Result) bool {
		students = append(students, LinkedStudent{
			StudentID:    item.Get("studentId").String(),
			StudentLogin: item.Get("studentLogin").String(),
			SchoolName:   item.Get("school_name").String(),
			Raw:          item,
		})
		return true
	})
	return students, nil
}

type switchStudentRequest struct {
	StudentID string `json:"studentId"`
	SavedUser string `json:"savedUser"`
}

// SwitchStudent moves the session to a linked student. The response follows the
// login format and replaces the session and token cookie wholesale.
func (c *Client) SwitchStudent(ctx context.Context, studentID, savedUser string) (Session, error) {
	resp, err := c.Request(ctx, http.MethodPost, PathSwitchStudent, switchStudentRequest{
		StudentID: studentID,
		SavedUser: savedUser,
	})
	if err != nil {
		return Session{}, err
	}

	session, err := c.establish(opSwitch, resp)
	if err != nil {
		return Session{}, err
	}
	c.logger.Info("Switched portal student", "student_id", session.StudentID, "school", session.SchoolName)
	return session, nil
}
