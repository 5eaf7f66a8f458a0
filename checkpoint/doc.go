// Package checkpoint persists pipeline positions to disk and restores them.
//
// A Manager snapshots any PositionRecorder (a data.Source or data.Pipeline)
// onto a tape, frames it with an integrity digest, and writes it to a
// uniquely named file. Restoring reloads the position into an equivalently
// constructed pipeline, which then resumes at the next unread element.
//
//	mgr, _ := checkpoint.NewManager(checkpoint.Config{Dir: "/var/ckpt"})
//	path, _ := mgr.Save(ctx, pipeline)
//	...
//	fresh := buildPipeline()
//	mgr.Restore(ctx, fresh, path)
package checkpoint
