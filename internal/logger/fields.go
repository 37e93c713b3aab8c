package logger

// Field keys shared across the service so log lines stay queryable.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldPostID    = "post_id"
)

// Fields builds a field map from alternating key-value pairs; non-string
// keys are skipped.
//
//	log.Info("done", logger.Fields("op", "create_post", "id", id))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
