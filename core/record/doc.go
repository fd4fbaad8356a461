// Package record stores scanned barcode/QR code records.
//
// A Record is an opaque scanned value plus its symbology and a user-assigned
// name. Storage is pluggable through the Store interface with in-memory,
// Redis, and PostgreSQL implementations. The package also round-trips whole
// collections through a versioned JSON envelope for export and import.
//
//	store := record.NewMemoryStore()
//
//	rec, err := record.New("Work WiFi", "WIFI:T:WPA;S:office;P:hunter2;;", barcode.FormatQRCode)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := store.Create(ctx, rec); err != nil {
//		log.Fatal(err)
//	}
//
//	data, err := record.Export(ctx, store)
//	// later, possibly on another instance:
//	n, err := record.Import(ctx, store, data, record.ImportMerge)
package record
