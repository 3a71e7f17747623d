// Copyright 2025 SCION Association
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame_test

import (
	"encoding/binary"
	"hash/fnv"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/staticrouter/pkg/private/xtest"
	"github.com/scionproto/staticrouter/router/frame"
)

func mustEncode(t *testing.T, f frame.Frame, payload []byte) []byte {
	t.Helper()
	raw, err := frame.Encode(f, payload)
	require.NoError(t, err)
	return raw
}

func TestEncodeLayout(t *testing.T) {
	payload := []byte("hello")
	raw := mustEncode(t, frame.Frame{
		Flags:       frame.FlagDestination,
		Priority:    7,
		Destination: 0x0a000001,
	}, payload)

	require.Len(t, raw, frame.HeaderLen+len(payload))
	assert.Equal(t, frame.Magic, binary.BigEndian.Uint16(raw[0:2]))
	assert.Equal(t, frame.Version, raw[2])
	assert.Equal(t, uint8(frame.FlagDestination), raw[3])
	assert.Equal(t, uint8(7), raw[4])
	assert.Equal(t, uint8(0), raw[5])
	assert.Equal(t, uint16(len(payload)), binary.BigEndian.Uint16(raw[6:8]))
	assert.Equal(t, uint32(0x0a000001), binary.BigEndian.Uint32(raw[8:12]))
	assert.Equal(t, payload, raw[frame.HeaderLen:])

	// The checksum is plain FNV-1a over the frame with a zeroed checksum field.
	zeroed := append([]byte(nil), raw...)
	copy(zeroed[12:16], []byte{0, 0, 0, 0})
	h := fnv.New32a()
	h.Write(zeroed)
	assert.Equal(t, h.Sum32(), binary.BigEndian.Uint32(raw[12:16]))
}

func TestGoldenFrame(t *testing.T) {
	golden := xtest.MustParseHexString(`
		5057 01 01 02 00 0002
		0a000001
		bdeaadd0
		6869`)
	raw := mustEncode(t, frame.Frame{
		Flags:       frame.FlagDestination,
		Priority:    2,
		Destination: 0x0a000001,
	}, []byte("hi"))
	assert.Equal(t, golden, raw)

	p := frame.NewParser()
	require.True(t, p.Parse(golden))
	dst, ok := p.DestinationAddress()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x0a000001), dst)
}

func TestDecodeFromBytes(t *testing.T) {
	valid := mustEncode(t, frame.Frame{
		Flags:       frame.FlagDestination,
		Priority:    1,
		Destination: 42,
	}, []byte{1, 2, 3, 4})

	corrupt := func(mod func(b []byte) []byte) []byte {
		return mod(append([]byte(nil), valid...))
	}

	testCases := map[string]struct {
		raw          []byte
		errAssertion assert.ErrorAssertionFunc
	}{
		"valid": {
			raw:          valid,
			errAssertion: assert.NoError,
		},
		"empty": {
			raw:          nil,
			errAssertion: assert.Error,
		},
		"short header": {
			raw:          valid[:frame.HeaderLen-1],
			errAssertion: assert.Error,
		},
		"truncated payload": {
			raw:          valid[:len(valid)-1],
			errAssertion: assert.Error,
		},
		"trailing bytes": {
			raw:          append(append([]byte(nil), valid...), 0),
			errAssertion: assert.Error,
		},
		"bad magic": {
			raw:          corrupt(func(b []byte) []byte { b[0] ^= 0xff; return b }),
			errAssertion: assert.Error,
		},
		"bad version": {
			raw:          corrupt(func(b []byte) []byte { b[2] = 2; return b }),
			errAssertion: assert.Error,
		},
		"flipped payload bit": {
			raw:          corrupt(func(b []byte) []byte { b[len(b)-1] ^= 1; return b }),
			errAssertion: assert.Error,
		},
		"flipped destination bit": {
			raw:          corrupt(func(b []byte) []byte { b[11] ^= 1; return b }),
			errAssertion: assert.Error,
		},
		"flipped reserved bit": {
			raw:          corrupt(func(b []byte) []byte { b[5] ^= 1; return b }),
			errAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var f frame.Frame
			err := f.DecodeFromBytes(tc.raw, gopacket.NilDecodeFeedback)
			tc.errAssertion(t, err)
		})
	}
}

func TestDecodeRegisteredLayer(t *testing.T) {
	payload := []byte("payload")
	raw := mustEncode(t, frame.Frame{Flags: frame.FlagDestination, Destination: 9}, payload)

	pkt := gopacket.NewPacket(raw, frame.LayerTypeFrame, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())
	l := pkt.Layer(frame.LayerTypeFrame)
	require.NotNil(t, l)
	f := l.(*frame.Frame)
	assert.Equal(t, uint32(9), f.Destination)
	assert.True(t, f.HasDestination())
	require.NotNil(t, pkt.ApplicationLayer())
	assert.Equal(t, payload, pkt.ApplicationLayer().Payload())
}

func TestDecodingLayerParser(t *testing.T) {
	raw := mustEncode(t, frame.Frame{Priority: 3}, []byte{0xaa})

	var f frame.Frame
	var p gopacket.Payload
	parser := gopacket.NewDecodingLayerParser(frame.LayerTypeFrame, &f, &p)
	decoded := []gopacket.LayerType{}
	require.NoError(t, parser.DecodeLayers(raw, &decoded))
	assert.Equal(t, []gopacket.LayerType{frame.LayerTypeFrame, gopacket.LayerTypePayload},
		decoded)
	assert.False(t, f.HasDestination())
	assert.Equal(t, uint8(3), f.Priority)
}
