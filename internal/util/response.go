package util

type Envelope map[string]any

// Result is the body shape every API endpoint answers with.
func Result(success bool, message string) Envelope {
	return Envelope{"success": success, "message": message}
}

func Error(message string) Envelope {
	return Result(false, message)
}

func Data(key string, value any) Envelope {
	return Envelope{"success": true, key: value}
}
