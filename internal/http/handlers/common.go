package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/platform/ctxutil"
)

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil || id.UserID == uuid.Nil {
		return uuid.Nil, errs.New(errs.CodeUnauthorized, "auth.identity", "no authenticated user")
	}
	return id.UserID, nil
}

func bindError(err error) error {
	return errs.Validation("request.bind", "invalid request body: %v", err)
}

// Timestamps without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// flexTime accepts RFC 3339 and zone-less ISO-8601 timestamps.
type flexTime struct {
	time.Time
}

func (ft *flexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		ft.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		ft.Time = time.Time{}
		return nil
	}
	t, ok := parseTimestamp(raw)
	if !ok {
		return &time.ParseError{Layout: time.RFC3339, Value: raw, Message: ": not an ISO-8601 timestamp"}
	}
	ft.Time = t
	return nil
}

func queryTime(c *gin.Context, op, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, ok := parseTimestamp(raw)
	if !ok {
		return nil, errs.Validation(op, "%s must be an ISO-8601 timestamp", name)
	}
	return &t, nil
}
