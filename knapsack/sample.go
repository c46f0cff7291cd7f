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

package knapsack

// SampleInstance returns the ten item instance solved by the knapsack_mip
// binary. Its unique optimum selects item_2, item_3, item_5, item_6, item_7,
// and item_9 for a total value of 40.09, filling the capacity of 25 exactly.
func SampleInstance() *Instance {
	return &Instance{
		Items: []Item{
			{Name: "item_1", Value: 3.11, Weight: 3.4},
			{Name: "item_2", Value: 7.41, Weight: 5.2},
			{Name: "item_3", Value: 8.62, Weight: 6.1},
			{Name: "item_4", Value: 4.25, Weight: 4.0},
			{Name: "item_5", Value: 6.50, Weight: 3.8},
			{Name: "item_6", Value: 5.88, Weight: 4.4},
			{Name: "item_7", Value: 4.93, Weight: 2.9},
			{Name: "item_8", Value: 2.17, Weight: 2.2},
			{Name: "item_9", Value: 6.75, Weight: 2.6},
			{Name: "item_10", Value: 3.58, Weight: 3.1},
		},
		Capacity: 25,
	}
}
