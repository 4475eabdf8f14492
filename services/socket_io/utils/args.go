package socketio_utils

import (
	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

/**
 * Helpers to unpack socket.io event arguments. Clients send either a
 * plain payload or a payload plus acknowledgment callback; the ack, if
 * any, always arrives as the last argument.
 */

// ExtractAck splits the optional acknowledgment callback off the
// argument list.
func ExtractAck(args []interface{}) ([]interface{}, socket.Ack) {
	if len(args) == 0 {
		return args, nil
	}
	if ack, ok := args[len(args)-1].(socket.Ack); ok {
		return args[:len(args)-1], ack
	}
	return args, nil
}

// StringArg reads args[i] as a string, empty when absent or mistyped.
func StringArg(args []interface{}, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}

// MapArg reads args[i] as an object payload, nil when absent.
func MapArg(args []interface{}, i int) map[string]interface{} {
	if i >= len(args) {
		return nil
	}
	m, _ := args[i].(map[string]interface{})
	return m
}

// MapString reads a string field from an object payload.
func MapString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// MapInt reads a numeric field from an object payload. JSON numbers
// decode as float64, so both forms are accepted.
func MapInt(m map[string]interface{}, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// MapBool reads a boolean field from an object payload; the second
// return value reports whether the field was present.
func MapBool(m map[string]interface{}, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	b, ok := m[key].(bool)
	return b, ok
}

// ReplyError reports a failure on the ack when the client asked for
// one, otherwise on the error channel.
func ReplyError(client *socket.Socket, ack socket.Ack, code, message string) {
	payload := gin.H{"ok": false, "code": code, "error": message}
	if ack != nil {
		ack([]any{payload}, nil)
		return
	}
	client.Emit("error", payload)
}

// ReplyOK acknowledges a successful request/response event.
func ReplyOK(ack socket.Ack, data gin.H) {
	if ack == nil {
		return
	}
	payload := gin.H{"ok": true}
	for k, v := range data {
		payload[k] = v
	}
	ack([]any{payload}, nil)
}
