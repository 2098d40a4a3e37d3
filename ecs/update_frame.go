package ecs

// UpdateFrame carries per-pass state handed to systems by the Scheduler
type UpdateFrame struct {
	// Pass counts Schedule calls, starting at 1
	Pass uint64
	// DeltaTime is the time in seconds since the previous pass, 0 on the first
	DeltaTime float64
	// System is the id of the system currently running
	System SystemID
	// Commands buffers structural changes until the running system finishes
	Commands *Commands
}

func newUpdateFrame(pass uint64, dt float64) *UpdateFrame {
	return &UpdateFrame{
		Pass:      pass,
		DeltaTime: dt,
		Commands:  newCommands(),
	}
}
