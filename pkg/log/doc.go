/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package log holds the process wide logger used by secgroupctl, which discards
everything until SetLogger is called.

NewLogger returns a logr.Logger that writes one line per entry, easy to read for
users but also simple to parse for identifying specific values:

	[prefix] Message: error Key1="value" Key2=123

Following logging conventions are used:

All messages should start with a capital letter.

Use Level 0 for command progress and results only; use Level 1 for the internal
workflow of the synchronizer (resolved scopes, planned rules, ignored inputs);
use Level 5 for debugging.

Values should be passed as key/value pairs rather than embedded into messages,
and their names should start with a capital letter.

A proper error management should always be preferred to the usage of log.Error.
*/
package log
