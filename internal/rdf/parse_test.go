package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/xmpmeta/internal/namespace"
	"github.com/simonhull/xmpmeta/internal/types"
)

const samplePacket = `<?xpacket begin="` + "\uFEFF" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:tiff="http://ns.adobe.com/tiff/1.0/"
    tiff:Make="Sony"
    tiff:Model="HDR-CX550V">
  </rdf:Description>
  <rdf:Description rdf:about=""
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:exif="http://ns.adobe.com/exif/1.0/"
    xmlns:xmpRights="http://ns.adobe.com/xap/1.0/rights/">
   <dc:creator>
    <rdf:Seq>
     <rdf:li>Alice</rdf:li>
     <rdf:li>Bob</rdf:li>
    </rdf:Seq>
   </dc:creator>
   <dc:subject>
    <rdf:Bag>
     <rdf:li>beach</rdf:li>
    </rdf:Bag>
   </dc:subject>
   <dc:title>
    <rdf:Alt>
     <rdf:li xml:lang="fr-FR">Plage</rdf:li>
     <rdf:li xml:lang="x-default">Beach</rdf:li>
    </rdf:Alt>
   </dc:title>
   <dc:source rdf:resource="http://example.com/a.jpg"/>
   <exif:Flash rdf:parseType="Resource">
    <exif:Fired>False</exif:Fired>
    <exif:Mode>2</exif:Mode>
   </exif:Flash>
   <xmpRights:UsageTerms rdf:parseType="Resource">
    <rdf:value>All rights reserved</rdf:value>
    <xmpRights:Marked>True</xmpRights:Marked>
   </xmpRights:UsageTerms>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, warnings, err := Parse([]byte(samplePacket), ParseOptions{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	return doc
}

func TestParse_Forms(t *testing.T) {
	doc := parseSample(t)

	assert.Equal(t, []string{namespace.TIFF, namespace.DC, namespace.EXIF, namespace.XMPRights}, doc.Schemas())

	tests := []struct {
		ns, path string
		want     string
		flags    Flags
	}{
		{namespace.TIFF, "tiff:Make", "Sony", 0},
		{namespace.TIFF, "Model", "HDR-CX550V", 0},
		{namespace.DC, "dc:creator", "", FlagArray | FlagArrayOrdered},
		{namespace.DC, "dc:creator[2]", "Bob", 0},
		{namespace.DC, "dc:creator[last()]", "Bob", 0},
		{namespace.DC, "dc:subject", "", FlagArray},
		{namespace.DC, "dc:title", "", altTextArray},
		{namespace.DC, "dc:title[1]", "Beach", FlagHasQualifiers | FlagHasLang},
		{namespace.DC, `dc:title[?xml:lang="fr-FR"]`, "Plage", FlagHasQualifiers | FlagHasLang},
		{namespace.DC, "dc:title[1]/?xml:lang", "x-default", FlagIsQualifier},
		{namespace.DC, "dc:source", "http://example.com/a.jpg", FlagValueIsURI},
		{namespace.EXIF, "exif:Flash", "", FlagStruct},
		{namespace.EXIF, "exif:Flash/exif:Fired", "False", 0},
		{namespace.EXIF, "exif:Flash/Mode", "2", 0},
		{namespace.XMPRights, "xmpRights:UsageTerms", "All rights reserved", FlagHasQualifiers},
		{namespace.XMPRights, "xmpRights:UsageTerms/?xmpRights:Marked", "True", FlagIsQualifier},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, flags, ok := doc.GetProperty(tt.ns, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.flags, flags)
		})
	}

	assert.Equal(t, 2, doc.PropertyCount(namespace.TIFF))
	assert.Equal(t, 4, doc.PropertyCount(namespace.DC))
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "  \n\t "} {
		doc, warnings, err := Parse([]byte(in), ParseOptions{})
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Empty(t, doc.Schemas())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code types.Code
	}{
		{"not xml", "xmp", types.CodeBadRDF},
		{"truncated", `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF`, types.CodeBadXML},
		{"no rdf", `<x:xmpmeta xmlns:x="adobe:ns:meta/"></x:xmpmeta>`, types.CodeBadRDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.in), ParseOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.code, types.CodeOf(err))
		})
	}
}

const duplicatePacket = `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
 <rdf:Description xmlns:tiff="http://ns.adobe.com/tiff/1.0/" tiff:Make="Sony"/>
 <rdf:Description xmlns:tiff="http://ns.adobe.com/tiff/1.0/" tiff:Make="Canon"/>
</rdf:RDF>`

func TestParse_DuplicateKeepsFirst(t *testing.T) {
	doc, warnings, err := Parse([]byte(duplicatePacket), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "rdf", warnings[0].Stage)
	assert.Contains(t, warnings[0].Message, "duplicate property tiff:Make")

	got, _, ok := doc.GetProperty(namespace.TIFF, "tiff:Make")
	require.True(t, ok)
	assert.Equal(t, "Sony", got)

	_, _, err = Parse([]byte(duplicatePacket), ParseOptions{Strict: true})
	require.Error(t, err)
	assert.Equal(t, types.CodeBadRDF, types.CodeOf(err))
}

func TestParse_LiteralWarns(t *testing.T) {
	in := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
 <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:format rdf:parseType="Literal">image/jpeg</dc:format>
 </rdf:Description>
</rdf:RDF>`
	doc, warnings, err := Parse([]byte(in), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	got, _, ok := doc.GetProperty(namespace.DC, "dc:format")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", got)
}

func TestParse_RegistryPrefixFallback(t *testing.T) {
	// tiff is not declared in the packet; the registry supplies it.
	in := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
 <rdf:Description><tiff:Make>Sony</tiff:Make></rdf:Description>
</rdf:RDF>`
	doc, _, err := Parse([]byte(in), ParseOptions{})
	require.NoError(t, err)
	got, _, ok := doc.GetProperty(namespace.TIFF, "tiff:Make")
	require.True(t, ok)
	assert.Equal(t, "Sony", got)
}

func TestParse_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	in, err := enc.Bytes([]byte(samplePacket))
	require.NoError(t, err)

	doc, _, err := Parse(in, ParseOptions{})
	require.NoError(t, err)
	got, _, ok := doc.GetProperty(namespace.TIFF, "tiff:Make")
	require.True(t, ok)
	assert.Equal(t, "Sony", got)
}

func TestParse_LangNormalized(t *testing.T) {
	in := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
 <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title><rdf:Alt>
   <rdf:li xml:lang="EN-us">Hello</rdf:li>
   <rdf:li xml:lang="X-Default">Hi</rdf:li>
  </rdf:Alt></dc:title>
 </rdf:Description>
</rdf:RDF>`
	doc, _, err := Parse([]byte(in), ParseOptions{})
	require.NoError(t, err)

	got, _, ok := doc.GetProperty(namespace.DC, "dc:title[1]")
	require.True(t, ok)
	assert.Equal(t, "Hi", got, "x-default moves first")

	got, _, ok = doc.GetProperty(namespace.DC, `dc:title[?xml:lang="en-US"]`)
	require.True(t, ok)
	assert.Equal(t, "Hello", got)
}
