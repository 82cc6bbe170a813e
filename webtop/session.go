// ABOUTME: Session value established by a successful portal login
// ABOUTME: Parses the login payload into identifiers while keeping the raw data

package webtop

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Session is the authenticated identity returned by Login or SwitchStudent.
type Session struct {
	Token      string
	UserID     string
	StudentID  string
	SchoolID   string
	SchoolName string
	FirstName  string
	LastName   string

	// EncryptedID is the encrypted student id several endpoints take as "id".
	EncryptedID string

	// Raw is the complete login data object, for fields not modelled above.
	Raw gjson.Result
}

// FullName joins first and last name.
func (s Session) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// parseSession applies the login response rules: JSON body, status literally true, non-empty data.token.
// op names the call in error messages ("login", "switch student").
func parseSession(op string, resp *Response) (Session, error) {
	if !gjson.ValidBytes(resp.Body) {
		return Session{}, &LoginError{
			Message:    fmt.Sprintf("%s response is not JSON: %.200s", op, resp.Body),
			StatusCode: resp.StatusCode,
		}
	}
	body := gjson.ParseBytes(resp.Body)

	if body.Get("status").Type != gjson.True {
		return Session{}, &LoginError{
			Message:     op + " returned status=false",
			Description: body.Get("errorDescription").String(),
			ID:          body.Get("errorId").String(),
			StatusCode:  resp.StatusCode,
		}
	}

	data := body.Get("data")
	token := data.Get("token").String()
	if token == "" {
		return Session{}, &LoginError{
			Message:    op + " succeeded but data.token is missing",
			StatusCode: resp.StatusCode,
		}
	}

	return Session{
		Token:       token,
		UserID:      data.Get("userId").String(),
		StudentID:   data.Get("studentId").String(),
		SchoolID:    data.Get("schoolId").String(),
		SchoolName:  data.Get("schoolName").String(),
		FirstName:   data.Get("firstName").String(),
		LastName:    data.Get("lastName").String(),
		EncryptedID: data.Get("id").String(),
		Raw:         data,
	}, nil
}
