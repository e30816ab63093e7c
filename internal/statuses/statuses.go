package statuses

const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusDraw     = "draw"
)
