// Copyright 2023 SCION Association
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

// Package processmetrics exports the scheduling times of the process: how much CPU time its
// threads ran and how much they were runnable but denied a core. The difference to
// num_cores * real_time estimates the CPU time the process could have used, for example:
//
//	rate(router_input_pkts_total[1m])
//	  / on (instance, job) group_left ()
//	(go_sched_maxprocs_threads - rate(process_runnable_seconds_total[1m]))
//
// The collector is only implemented on Linux. Elsewhere Init does nothing.
package processmetrics
