// Copyright 2024-2026 The optkit Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assignment

import "gonum.org/v1/gonum/mat"

// SampleInstance returns the ten by ten instance solved by the
// assignment_mip binary. Its unique optimal assignment pairs resource 1
// with task 10, 2 with 7, 3 with 5, 4 with 1, 5 with 9, 6 with 4, 7 with 2,
// 8 with 6, 9 with 3, and 10 with 8, for a total cost of 14.3778.
func SampleInstance() *Instance {
	return &Instance{costs: mat.NewDense(10, 10, []float64{
		7.1126, 2.2096, 4.2047, 3.7912, 7.887, 7.4101, 9.1296, 2.7038, 5.3769, 0.9507,
		3.7547, 6.0427, 2.2218, 3.5967, 7.1961, 6.3586, 1.0241, 6.7123, 8.4693, 2.0619,
		8.4404, 7.5812, 4.7252, 3.2507, 1.3265, 4.696, 2.7501, 2.7818, 8.773, 6.8277,
		1.1852, 7.8333, 6.2891, 9.7755, 5.0307, 6.4153, 8.6286, 6.9458, 8.8864, 6.6173,
		7.6325, 2.3757, 3.8286, 4.3193, 2.6467, 3.8677, 2.816, 4.2282, 1.6601, 4.9214,
		4.964, 3.6819, 4.1405, 1.2314, 7.1813, 6.8709, 3.3757, 7.8284, 3.314, 5.0381,
		9.9064, 1.8522, 6.4545, 7.4732, 8.736, 8.2025, 3.8378, 2.2662, 4.5273, 4.1466,
		3.6936, 9.5344, 9.0034, 4.5211, 7.2404, 1.3976, 9.3081, 5.6716, 4.1237, 3.9781,
		6.4897, 4.1067, 1.7805, 9.1746, 5.1972, 3.7602, 9.9704, 6.076, 2.7355, 2.386,
		2.885, 7.017, 8.3308, 5.3788, 2.517, 5.0553, 9.959, 1.9695, 9.7592, 8.879,
	})}
}
