// Package xmpmeta reads and writes XMP metadata embedded in media files.
//
// XMP is RDF/XML describing a file: who made it, with which camera,
// under which license. xmpmeta parses the packet into a Store with
// namespace-qualified, hierarchical properties, iterates it with the
// options XMP toolkits offer, and writes it back without ever leaving a
// half-written file behind.
//
// # Quick Start
//
// Reading a property:
//
//	file, err := xmpmeta.Open("clip.mp4", xmpmeta.ModeRead)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	maker, _ := file.XMP().Get("tiff", "tiff:Make")
//	fmt.Println(maker)
//
// Updating a file:
//
//	file, err := xmpmeta.Open("photo.jpg", xmpmeta.ModeReadWrite)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := file.XMP().Assign("dc:creator[1]", "Alice"); err != nil {
//		log.Fatal(err)
//	}
//	if err := file.Save(xmpmeta.WithBackup(".bak")); err != nil {
//		log.Fatal(err)
//	}
//	file.Close()
//
// # Supported Formats
//
//   - XMP sidecars (.xmp) and bare packets
//   - JPEG: APP1 segment, packets up to 65502 bytes
//   - MP4/MOV: the XMP uuid box
//   - Any other file carrying an <?xpacket?> packet, rewritten in place
//
// # Paths
//
// Properties are addressed by namespace and path. The namespace is a
// registry key ("tiff"), a prefix, or a URI. Paths follow XMP syntax:
//
//	tiff:Make                         simple property
//	dc:creator[2]                     array item (1-based)
//	dc:creator[last()]                last array item
//	dc:title[?xml:lang="x-default"]   language alternative
//	exif:Flash/exif:Fired             struct field
//	dc:title[1]/?xml:lang             qualifier
//
// # Iteration
//
// Iterators walk a snapshot of the store depth first, schema node first
// and qualifiers before children:
//
//	for e := range store.EachInNamespace("exif") {
//		fmt.Println(e.Path, e.Value, e.Flags.Set())
//	}
//
// # Error Handling
//
// Errors are typed and matched with errors.As:
//
//   - *FileNotFoundError, *UnsupportedFormatError, *CorruptedFileError on Open
//   - *WriteError when a write violates the access mode or the format
//   - *PropertyWriteError when a property cannot be set; CodeOf gives the
//     engine code
//   - *InvalidArgumentError for malformed keys and packets
//
// Non-fatal parse problems are collected in Store.Warnings unless
// WithStrictParsing is given.
package xmpmeta
