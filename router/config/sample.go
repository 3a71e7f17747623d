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

package config

const idSample = "router-1"

const routerSample = `
# The UDP address frames are received on. (default "127.0.0.1:30100")
listen = "127.0.0.1:30100"

# The wire format of received frames (frame|ipv4). (default "frame")
parser = "frame"

# The number of datagrams read with a single system call. (default 64)
batch_size = 64

# The socket receive buffer size in bytes. 0 keeps the system default. (default 0)
receive_buffer_size = 0

# The period at which the router counters are logged. 0 disables the report.
# (default 0)
stats_interval = "1m"

# Egresses are the transports routed packets leave through. Each has a unique
# name and a type (udp|queue|nats|discard).
[[router.egress]]
name = "uplink"
type = "udp"
# The address packets are sent to. (udp only)
remote = "127.0.0.1:30200"
# The timeout of a single send. (udp only, default 100ms)
write_timeout = "100ms"

[[router.egress]]
name = "local"
type = "queue"
# The number of packets held per priority. (queue only, default 1024)
queue_size = 1024

[[router.egress]]
name = "bus"
type = "nats"
# The NATS server to connect to. (nats only, default "nats://127.0.0.1:4222")
url = "nats://127.0.0.1:4222"
# The subject packets are published on. (nats only, default "router.<name>")
subject = "router.bus"

[[router.egress]]
name = "blackhole"
type = "discard"

# The route table. Addresses are decimal, 0x-prefixed hexadecimal or dotted
# IPv4. If several routes have the same address, the first one is used.
[[router.routes]]
address = "10.0.0.1"
egress = "uplink"

[[router.routes]]
address = "0x0a000002"
egress = "local"

[[router.routes]]
address = "167772163"
egress = "bus"

[[router.routes]]
address = "0"
egress = "blackhole"
`
