// Package publish writes a rendered site to its destination.
//
// A Sink stores one file at a time. Persist hands every file of a
// render.FileMap to a Sink and keeps going when individual writes fail:
// failures are collected into a *PersistError after every file has been
// attempted, so a partial build can still be inspected.
//
// # Sinks
//
//   - FilesystemSink writes into a go-billy filesystem. NewDirSink targets a
//     directory on disk, NewMemorySink an in-memory tree for tests.
//   - S3Sink uploads each file as an object under a key prefix.
//   - SQLiteArchiveSink stores files in an SQLite Archive (sqlar) database
//     that the sqlite3 CLI can extract with "sqlite3 site.sqlar -Ax".
//
// # Usage
//
//	files, err := render.Render(tree, render.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	sink, err := publish.NewDirSink("dist")
//	if err != nil {
//		return err
//	}
//	if err := publish.Persist(ctx, files, sink); err != nil {
//		var perr *publish.PersistError
//		if errors.As(err, &perr) {
//			for _, w := range perr.Errors {
//				log.Printf("%s: %v", w.Path, w.Err)
//			}
//		}
//		return err
//	}
package publish
