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

// Package frame implements the router's native frame format.
//
// A frame is a 16 byte header followed by the payload. All fields are big endian.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|             Magic             |    Version    |     Flags     |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|    Priority   |    Reserved   |         Payload Length        |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                      Destination Address                      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                           Checksum                            |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// The destination address is only meaningful if FlagDestination is set. The checksum is
// FNV-1a (32 bit) over the header, with the checksum field set to zero, and the payload.
package frame

import (
	"encoding/binary"
	"errors"

	"github.com/gopacket/gopacket"
)

const (
	// Magic identifies a frame ("PW").
	Magic uint16 = 0x5057
	// Version is the only supported header version.
	Version uint8 = 1
	// HeaderLen is the length of the frame header.
	HeaderLen = 16

	checksumOffset = 12
)

// Flags of the frame header.
type Flags uint8

const (
	// FlagDestination marks the destination address field as valid.
	FlagDestination Flags = 1 << iota
)

var (
	errTruncated   = errors.New("frame truncated")
	errBadMagic    = errors.New("bad magic")
	errBadVersion  = errors.New("unsupported version")
	errTrailing    = errors.New("trailing bytes after payload")
	errBadChecksum = errors.New("checksum mismatch")
)

// LayerTypeFrame is the gopacket layer type of a frame.
var LayerTypeFrame = gopacket.RegisterLayerType(
	1600,
	gopacket.LayerTypeMetadata{
		Name:    "StaticRouterFrame",
		Decoder: gopacket.DecodeFunc(decodeFrame),
	},
)

// Frame is the header of a frame. It implements gopacket.DecodingLayer and
// gopacket.SerializableLayer.
type Frame struct {
	Flags       Flags
	Priority    uint8
	Length      uint16
	Destination uint32
	Checksum    uint32

	contents []byte
	payload  []byte
}

// HasDestination returns whether the destination address field is valid.
func (f *Frame) HasDestination() bool {
	return f.Flags&FlagDestination != 0
}

func (f *Frame) LayerType() gopacket.LayerType {
	return LayerTypeFrame
}

func (f *Frame) CanDecode() gopacket.LayerClass {
	return LayerTypeFrame
}

func (f *Frame) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func (f *Frame) LayerContents() []byte {
	return f.contents
}

func (f *Frame) LayerPayload() []byte {
	return f.payload
}

// DecodeFromBytes decodes and verifies a frame. The frame keeps references into data.
func (f *Frame) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderLen {
		df.SetTruncated()
		return errTruncated
	}
	if binary.BigEndian.Uint16(data[0:2]) != Magic {
		return errBadMagic
	}
	if data[2] != Version {
		return errBadVersion
	}
	f.Flags = Flags(data[3])
	f.Priority = data[4]
	f.Length = binary.BigEndian.Uint16(data[6:8])
	f.Destination = binary.BigEndian.Uint32(data[8:12])
	f.Checksum = binary.BigEndian.Uint32(data[12:16])

	end := HeaderLen + int(f.Length)
	switch {
	case end > len(data):
		df.SetTruncated()
		return errTruncated
	case end < len(data):
		return errTrailing
	}
	f.contents = data[:HeaderLen]
	f.payload = data[HeaderLen:end]
	if checksum(f.contents, f.payload) != f.Checksum {
		return errBadChecksum
	}
	return nil
}

// SerializeTo writes the header in front of the bytes already in b, which are taken to be
// the payload. With opts.FixLengths the length field is set from the payload, with
// opts.ComputeChecksums the checksum is computed.
func (f *Frame) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	payloadLen := len(b.Bytes())
	if payloadLen > 0xffff {
		return errors.New("payload too large")
	}
	hdr, err := b.PrependBytes(HeaderLen)
	if err != nil {
		return err
	}
	if opts.FixLengths {
		f.Length = uint16(payloadLen)
	}
	binary.BigEndian.PutUint16(hdr[0:2], Magic)
	hdr[2] = Version
	hdr[3] = uint8(f.Flags)
	hdr[4] = f.Priority
	hdr[5] = 0
	binary.BigEndian.PutUint16(hdr[6:8], f.Length)
	binary.BigEndian.PutUint32(hdr[8:12], f.Destination)
	if opts.ComputeChecksums {
		f.Checksum = checksum(hdr, b.Bytes()[HeaderLen:])
	}
	binary.BigEndian.PutUint32(hdr[12:16], f.Checksum)
	return nil
}

func decodeFrame(data []byte, pb gopacket.PacketBuilder) error {
	f := &Frame{}
	if err := f.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(f)
	return pb.NextDecoder(f.NextLayerType())
}

// Encode returns a complete frame with the given header fields and payload.
func Encode(f Frame, payload []byte) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, &f, gopacket.Payload(payload)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
