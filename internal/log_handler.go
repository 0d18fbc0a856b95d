package internal

// LogHandler is the logging contract shared by the gateway packages;
// RawDataEvent traces request payloads and is silent unless debug mode is on
type LogHandler interface {
	FeatureEvent(feature, id, text string)
	RawDataEvent(direction, data string)
	Debug(text string)
	Warn(text string)
	Error(text string, err error)
}
