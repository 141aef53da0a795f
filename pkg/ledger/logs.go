package ledger

type Logger interface {
	Log(msg string)
}

// LogRecorder collects the log lines produced while a transaction runs, in
// emission order.
type LogRecorder struct {
	Logs []string
}

func (l *LogRecorder) Log(msg string) {
	l.Logs = append(l.Logs, msg)
}
