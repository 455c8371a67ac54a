// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
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

// Package definition reads declarative dashboard definitions and builds
// dashboards from them.
//
// A definition names the deployment prefix, the region and an ordered
// list of sections:
//
//	kind: DashboardDefinition
//	apiVersion: cloudherder.io/v1
//	spec:
//	  org: pu
//	  environment: dev
//	  name: orders
//	  region: us-east-1
//	  sections:
//	    - type: alb
//	      targetGroup: targetgroup/orders/6d0ecf831eec9f09
//	      loadBalancer: app/orders-alb/50dc6c495c0c9188
//	    - type: rds
//
// Section types map onto the builders of the section package. The
// "panels" type carries raw panels authored at local origin, optionally
// under a title header.
//
// Definitions load from local files, HTTP(S) URLs and ConfigMaps:
//
//	def, err := definition.Load("cm://monitoring/orders")
//	if err != nil {
//	    return err
//	}
//	d, err := def.Build(ctx)
//
// Unless spec.ingestion is false, the log ingestion section closes the
// dashboard.
package definition
