// Copyright 2024 SCION Association
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

package frame

// fnv1aOffset32 is the initial state of an FNV-1a 32 bit hash.
const fnv1aOffset32 uint32 = 2166136261

// hashFNV1a returns a hash value for the given initial state combined with the given byte.
// To get a hash for a sequence of bytes, invoke for each byte, passing the returned value
// of one call as the state for the next.
func hashFNV1a(state uint32, c byte) uint32 {
	const prime32 = 16777619
	return (state ^ uint32(c)) * prime32
}

// checksum computes the frame checksum: FNV-1a over the header with the checksum field
// zeroed, followed by the payload. hdr must be a full header.
func checksum(hdr, payload []byte) uint32 {
	s := fnv1aOffset32
	for _, c := range hdr[:checksumOffset] {
		s = hashFNV1a(s, c)
	}
	for i := 0; i < HeaderLen-checksumOffset; i++ {
		s = hashFNV1a(s, 0)
	}
	for _, c := range payload {
		s = hashFNV1a(s, c)
	}
	return s
}
