package types

import "strconv"

// Code is a numeric engine failure code. Values follow the XMP toolkit
// error numbering so codes stay recognisable in diagnostics.
type Code int

const (
	CodeUnknown         Code = 0
	CodeBadObject       Code = -3
	CodeBadParam        Code = -4
	CodeBadValue        Code = -5
	CodeInternalFailure Code = -9
	CodeBadSchema       Code = -101
	CodeBadXPath        Code = -102
	CodeBadOptions      Code = -103
	CodeBadIndex        Code = -104
	CodeBadParse        Code = -106
	CodeBadSerialize    Code = -107
	CodeBadFileFormat   Code = -108
	CodeNoFileHandler   Code = -109
	CodeTooLargeForJPEG Code = -110
	CodeBadXML          Code = -201
	CodeBadRDF          Code = -202
	CodeBadXMP          Code = -203
	CodeBadJPEG         Code = -207
	CodeBadMPEG         Code = -211
)

var codeNames = map[Code]string{
	CodeUnknown:         "Unknown",
	CodeBadObject:       "BadObject",
	CodeBadParam:        "BadParam",
	CodeBadValue:        "BadValue",
	CodeInternalFailure: "InternalFailure",
	CodeBadSchema:       "BadSchema",
	CodeBadXPath:        "BadXPath",
	CodeBadOptions:      "BadOptions",
	CodeBadIndex:        "BadIndex",
	CodeBadParse:        "BadParse",
	CodeBadSerialize:    "BadSerialize",
	CodeBadFileFormat:   "BadFileFormat",
	CodeNoFileHandler:   "NoFileHandler",
	CodeTooLargeForJPEG: "TooLargeForJPEG",
	CodeBadXML:          "BadXML",
	CodeBadRDF:          "BadRDF",
	CodeBadXMP:          "BadXMP",
	CodeBadJPEG:         "BadJPEG",
	CodeBadMPEG:         "BadMPEG",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}
