package http

import (
	"encoding/json"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
)

// sensitiveKeys are redacted from logged JSON bodies.
var sensitiveKeys = []string{"token", "secret", "password", "authorization"}

type requestLogLine struct {
	Time      string `json:"time"`
	RequestID string `json:"request_id"`
	Client    string `json:"client"`
	LatencyMS int64  `json:"latency_ms"`
	Request   struct {
		Method string      `json:"method"`
		URI    string      `json:"uri"`
		Body   interface{} `json:"body,omitempty"`
	} `json:"request"`
	Response struct {
		Status int         `json:"status"`
		Body   interface{} `json:"body,omitempty"`
		Error  string      `json:"error,omitempty"`
	} `json:"response"`
}

func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			line := requestLogLine{
				Time:      v.StartTime.Format(time.RFC3339),
				RequestID: v.RequestID,
				Client:    "anonymous",
				LatencyMS: v.Latency.Milliseconds(),
			}
			if client, ok := CurrentClient(c); ok {
				line.Client = client
			}

			line.Request.Method = v.Method
			line.Request.URI = v.URI
			line.Request.Body = c.Get(requestBodyLogKey)

			line.Response.Status = v.Status
			line.Response.Body = c.Get(responseBodyLogKey)
			if v.Error != nil {
				line.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(line)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := summarizeBody(reqBody); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := summarizeBody(resBody); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// summarizeBody returns a loggable form of an HTTP body: redacted JSON when it
// parses, otherwise a clamped string or "binary".
func summarizeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}

	var data interface{}
	if json.Valid(body) && json.Unmarshal(body, &data) == nil {
		redacted := redactJSON(data)
		buf, err := json.Marshal(redacted)
		if err == nil && len(buf) > maxLoggedBody {
			return map[string]interface{}{"_truncated": true, "_preview": clampString(string(buf))}
		}
		return redacted
	}

	if containsBinaryBytes(body) {
		return "binary"
	}
	return clampString(string(body))
}

func redactJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			if isSensitiveKey(key) {
				out[key] = "redacted"
				continue
			}
			out[key] = redactJSON(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactJSON(item)
		}
		return out
	case string:
		return clampString(v)
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func containsBinaryBytes(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
