// Package dataload loads images, CSV, Parquet and JSON into in-memory arrays
// and Arrow tables, and offers small helpers over lists of key/value records.
//
// Every operation is stateless: results are built fresh on each call and are
// owned by the caller. Arrow tables must be released with Release.
//
// # Quick Start
//
// The package-level functions read from the local filesystem:
//
//	img, err := dataload.LoadImage(ctx, "photo.png")
//	fmt.Println(img.Shape()) // [480 640 3]
//
//	tbl, err := dataload.LoadCSV(ctx, "people.csv")
//	defer tbl.Release()
//	ages, err := dataload.ColumnToList(tbl, "age")
//
// Records are ordered key/value mappings:
//
//	records := []*record.Record{
//	    record.MustOf("a", 1, "b", 2),
//	    record.MustOf("a", 3),
//	}
//	tbl, err := dataload.RecordsToTable(records) // b is null in row 2
//	slim := dataload.RemoveKeys(records, "b")
//
// # Storage
//
// A Client adds S3 access, a base path for relative locations, custom CSV
// parsing and exports:
//
//	client, err := dataload.NewClient(ctx,
//	    dataload.WithS3(&dataload.S3Config{Region: "us-east-1"}),
//	)
//	tbl, err := client.LoadParquet(ctx, "s3://bucket/events.parquet")
//	err = client.ExportCSV(ctx, tbl, "s3://bucket/events.csv")
//
// Failures while reading or writing storage are *IOError values matching
// ErrIOFailed, and ErrFileNotFound when the location does not exist.
package dataload
