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

// Package client provides the Kubernetes clientset used for ConfigMap
// document storage.
//
// GetKubeClient builds the clientset once and caches it:
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//
// The kubeconfig is resolved in this order:
//
//  1. An explicit path passed to BuildKubeClient
//  2. The KUBECONFIG environment variable
//  3. ~/.kube/config, when it exists
//  4. The in-cluster service account
//
// Tests use k8s.io/client-go/kubernetes/fake and pass the fake clientset
// wherever an Interface is accepted.
package client
