// Package serialization stores ragged arrays in the .ragd container format.
//
// An array is decomposed into its form, its length and a set of named
// little-endian buffers (see content.ToBuffers). The container lays them out
// as:
//
//	Format Structure:
//	  [0x00: Magic "RAGD"]
//	  [0x04: Version (uint32 LE)]
//	  [0x08: Flags (uint32 LE)]
//	  [0x0C: Reserved]
//	  [0x10: Header Size (uint64 LE)]
//	  [0x18: Data Size (uint64 LE)]
//	  [0x20: SHA-256 of the data section]
//	  [0x40: Header: JSON with form, length, buffer table and metadata]
//	  [Buffer data: raw bytes, 64-byte aligned]
//
// Example usage:
//
//	w, err := serialization.NewWriter("tracks.ragd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Write(array, map[string]string{"source": "run-42"}); err != nil {
//	    log.Fatal(err)
//	}
//	w.Close()
//
//	r, err := serialization.NewReader("tracks.ragd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	array, err := r.Load(cpu.New())
package serialization
