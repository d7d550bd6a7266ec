package ihex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	segs, err := Decode(strings.NewReader(":0300300002337A1E\n:00000001FF\n"))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(uint16(0x0030), segs[0].Addr)
	assert.Equal([]byte{0x02, 0x33, 0x7A}, segs[0].Data)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0, []byte{0x3E, 0x25, 0x06, 0x35, 0x80, 0x76}))
	assert.Equal(t, ":060000003E250635807666\n:00000001FF\n", buf.String())
}

func TestRoundTripMergesRecords(t *testing.T) {
	assert := assert.New(t)

	data := make([]byte, 40)
	for i := range data {
		data[i] = uint8(i * 7)
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0x2000, data))
	assert.Equal(4, strings.Count(buf.String(), "\n"))

	segs, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(uint16(0x2000), segs[0].Addr)
	assert.Equal(data, segs[0].Data)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"start code", "0300300002337A1E\n", ErrStartCode},
		{"not hex", ":03003000ZZ337A1E\n", ErrSyntax},
		{"length", ":0400300002337A1E\n", ErrLength},
		{"checksum", ":0300300002337A1F\n", ErrChecksum},
		{"record type", ":020000040000FA\n", ErrRecordType},
		{"no eof", ":0300300002337A1E\n", ErrNoEOF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFlatten(t *testing.T) {
	assert := assert.New(t)

	org, img := Flatten([]Segment{
		{Addr: 0x104, Data: []byte{4, 5}},
		{Addr: 0x100, Data: []byte{1}},
	})
	assert.Equal(uint16(0x100), org)
	assert.Equal([]byte{1, 0, 0, 0, 4, 5}, img)

	org, img = Flatten(nil)
	assert.Zero(org)
	assert.Nil(img)
}
