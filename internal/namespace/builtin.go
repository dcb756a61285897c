package namespace

// Well-known namespace URIs.
const (
	XMP         = "http://ns.adobe.com/xap/1.0/"
	XMPRights   = "http://ns.adobe.com/xap/1.0/rights/"
	XMPMM       = "http://ns.adobe.com/xap/1.0/mm/"
	XMPBJ       = "http://ns.adobe.com/xap/1.0/bj/"
	XMPNote     = "http://ns.adobe.com/xmp/note/"
	PDF         = "http://ns.adobe.com/pdf/1.3/"
	Photoshop   = "http://ns.adobe.com/photoshop/1.0/"
	EXIF        = "http://ns.adobe.com/exif/1.0/"
	EXIFAux     = "http://ns.adobe.com/exif/1.0/aux/"
	EXIFEx      = "http://cipa.jp/exif/1.0/"
	TIFF        = "http://ns.adobe.com/tiff/1.0/"
	PNG         = "http://ns.adobe.com/png/1.0/"
	JPEG        = "http://ns.adobe.com/jpeg/1.0/"
	JP2K        = "http://ns.adobe.com/jp2k/1.0/"
	CameraRaw   = "http://ns.adobe.com/camera-raw-settings/1.0/"
	DM          = "http://ns.adobe.com/xmp/1.0/DynamicMedia/"
	ASF         = "http://ns.adobe.com/asf/1.0/"
	WAV         = "http://ns.adobe.com/xmp/wav/1.0/"
	BWF         = "http://ns.adobe.com/bwf/bext/1.0/"
	DC          = "http://purl.org/dc/elements/1.1/"
	IPTCCore    = "http://iptc.org/std/Iptc4xmpCore/1.0/xmlns/"
	IPTCExt     = "http://iptc.org/std/Iptc4xmpExt/2008-02-29/"
	DICOM       = "http://ns.adobe.com/DICOM/"
	PLUS        = "http://ns.useplus.org/ldf/xmp/1.0/"
	CC          = "http://creativecommons.org/ns#"
	Lightroom   = "http://ns.adobe.com/lightroom/1.0/"
	MWGRegions  = "http://www.metadataworkinggroup.com/schemas/regions/"
	MWGKeywords = "http://www.metadataworkinggroup.com/schemas/keywords/"
	RDF         = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XML         = "http://www.w3.org/XML/1998/namespace"
	Meta        = "adobe:ns:meta/"
	STRef       = "http://ns.adobe.com/xap/1.0/sType/ResourceRef#"
	STEvt       = "http://ns.adobe.com/xap/1.0/sType/ResourceEvent#"
	STDim       = "http://ns.adobe.com/xap/1.0/sType/Dimensions#"
	STVer       = "http://ns.adobe.com/xap/1.0/sType/Version#"
	STJob       = "http://ns.adobe.com/xap/1.0/sType/Job#"
	STFnt       = "http://ns.adobe.com/xap/1.0/sType/Font#"
	XMPG        = "http://ns.adobe.com/xap/1.0/g/"
	XMPGImg     = "http://ns.adobe.com/xap/1.0/g/img/"
	XMPT        = "http://ns.adobe.com/xap/1.0/t/"
	XMPTPg      = "http://ns.adobe.com/xap/1.0/t/pg/"
	PDFX        = "http://ns.adobe.com/pdfx/1.3/"
	PDFAID      = "http://www.aiim.org/pdfa/ns/id/"
)

var builtinEntries = []Entry{
	{Key: "xmp", Prefix: "xmp", URI: XMP},
	{Key: "xmp_rights", Prefix: "xmpRights", URI: XMPRights},
	{Key: "xmp_mm", Prefix: "xmpMM", URI: XMPMM},
	{Key: "xmp_bj", Prefix: "xmpBJ", URI: XMPBJ},
	{Key: "xmp_note", Prefix: "xmpNote", URI: XMPNote},
	{Key: "pdf", Prefix: "pdf", URI: PDF},
	{Key: "photoshop", Prefix: "photoshop", URI: Photoshop},
	{Key: "exif", Prefix: "exif", URI: EXIF},
	{Key: "exif_aux", Prefix: "aux", URI: EXIFAux},
	{Key: "exif_ex", Prefix: "exifEX", URI: EXIFEx},
	{Key: "tiff", Prefix: "tiff", URI: TIFF},
	{Key: "png", Prefix: "png", URI: PNG},
	{Key: "jpeg", Prefix: "jpeg", URI: JPEG},
	{Key: "jp2k", Prefix: "jp2k", URI: JP2K},
	{Key: "camera_raw", Prefix: "crs", URI: CameraRaw},
	{Key: "dm", Prefix: "xmpDM", URI: DM},
	{Key: "xmp_dm", Prefix: "xmpDM", URI: DM},
	{Key: "asf", Prefix: "asf", URI: ASF},
	{Key: "wav", Prefix: "wav", URI: WAV},
	{Key: "bwf", Prefix: "bext", URI: BWF},
	{Key: "dc", Prefix: "dc", URI: DC},
	{Key: "iptc4xmp_core", Prefix: "Iptc4xmpCore", URI: IPTCCore},
	{Key: "iptc4xmp_ext", Prefix: "Iptc4xmpExt", URI: IPTCExt},
	{Key: "dicom", Prefix: "DICOM", URI: DICOM},
	{Key: "plus", Prefix: "plus", URI: PLUS},
	{Key: "cc", Prefix: "cc", URI: CC},
	{Key: "lr", Prefix: "lr", URI: Lightroom},
	{Key: "mwg_rs", Prefix: "mwg-rs", URI: MWGRegions},
	{Key: "mwg_kw", Prefix: "mwg-kw", URI: MWGKeywords},
	{Key: "rdf", Prefix: "rdf", URI: RDF},
	{Key: "xml", Prefix: "xml", URI: XML},
	{Key: "x", Prefix: "x", URI: Meta},
	{Key: "st_ref", Prefix: "stRef", URI: STRef},
	{Key: "st_evt", Prefix: "stEvt", URI: STEvt},
	{Key: "st_dim", Prefix: "stDim", URI: STDim},
	{Key: "st_ver", Prefix: "stVer", URI: STVer},
	{Key: "st_job", Prefix: "stJob", URI: STJob},
	{Key: "st_fnt", Prefix: "stFnt", URI: STFnt},
	{Key: "xmp_g", Prefix: "xmpG", URI: XMPG},
	{Key: "xmp_g_img", Prefix: "xmpGImg", URI: XMPGImg},
	{Key: "xmp_t", Prefix: "xmpT", URI: XMPT},
	{Key: "xmp_t_pg", Prefix: "xmpTPg", URI: XMPTPg},
	{Key: "pdfx", Prefix: "pdfx", URI: PDFX},
	{Key: "pdfa_id", Prefix: "pdfaid", URI: PDFAID},
}

const (
	defaultCreator = "dc:creator[1]"
	defaultLang    = `[?xml:lang="x-default"]`
)

var builtinAliases = []Alias{
	{Namespace: XMP, Name: "Author", ActualNS: DC, ActualPath: defaultCreator},
	{Namespace: XMP, Name: "Description", ActualNS: DC, ActualPath: "dc:description" + defaultLang},
	{Namespace: XMP, Name: "Format", ActualNS: DC, ActualPath: "dc:format"},
	{Namespace: XMP, Name: "Title", ActualNS: DC, ActualPath: "dc:title" + defaultLang},
	{Namespace: PDF, Name: "Author", ActualNS: DC, ActualPath: defaultCreator},
	{Namespace: PDF, Name: "Title", ActualNS: DC, ActualPath: "dc:title" + defaultLang},
	{Namespace: Photoshop, Name: "Author", ActualNS: DC, ActualPath: defaultCreator},
	{Namespace: Photoshop, Name: "Copyright", ActualNS: DC, ActualPath: "dc:rights" + defaultLang},
	{Namespace: TIFF, Name: "Artist", ActualNS: DC, ActualPath: defaultCreator},
	{Namespace: TIFF, Name: "Copyright", ActualNS: DC, ActualPath: "dc:rights" + defaultLang},
	{Namespace: TIFF, Name: "DateTime", ActualNS: XMP, ActualPath: "xmp:ModifyDate"},
	{Namespace: TIFF, Name: "ImageDescription", ActualNS: DC, ActualPath: "dc:description" + defaultLang},
	{Namespace: TIFF, Name: "Software", ActualNS: XMP, ActualPath: "xmp:CreatorTool"},
	{Namespace: EXIF, Name: "DateTimeDigitized", ActualNS: XMP, ActualPath: "xmp:CreateDate"},
}
