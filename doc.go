// Package zipstream writes Zip64 archives to a forward-only byte sink.
//
// The writer never seeks and never buffers the archive: each member is
// emitted as a local header, the (optionally deflated) payload, and a
// trailing data descriptor carrying the CRC-32 and sizes. The central
// directory and the Zip64 end-of-central-directory records are written
// when the archive is closed. Member sizes do not need to be known up
// front, so archives larger than memory — and members larger than
// 4 GiB — stream in constant space.
//
// # Quick start
//
// Stream two members to an HTTP response:
//
//	n, err := zipstream.Send("report.zip", func(a *zipstream.Archive) error {
//	    if err := a.AddBytes("summary.txt", summary); err != nil {
//	        return err
//	    }
//	    return a.AddFile("data/metrics.csv", "/var/run/metrics.csv")
//	}, zipstream.WithOutput(zipstream.NewResponseSink(w)))
//
// Or drive an archive directly:
//
//	a, err := zipstream.New("backup.zip", zipstream.WithOutput(zipstream.NewFileSink("backup.zip")))
//	if err != nil {
//	    return err
//	}
//	err = a.Add("logs/app.log", func(e *zipstream.Entry) error {
//	    _, err := io.Copy(e, logReader)
//	    return err
//	})
//	if err != nil {
//	    return err
//	}
//	total, err := a.Close()
//
// # Output format
//
// Every member defers its CRC and sizes to a Zip64 data descriptor
// (general-purpose flag bit 3), and the archive always ends with a
// Zip64 end-of-central-directory record and locator, so readers need
// Zip64 support (version 4.5). Compression is either Store or raw
// Deflate.
package zipstream
