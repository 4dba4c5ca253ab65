// Copyright 2025 walteh LLC
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

/*
Package config owns the persisted db-mg record.

🎯 Purpose:
- Locates, loads and saves the config record
- Creates the base directory layout on init
- Remembers subfolders created inside each category

🔄 Flow:
1. Reads the file named by --config or the default location
2. Picks a parser by extension (JSON when unknown)
3. Decodes into an opaque map, then binds it to Config
4. Validates base_path and normalizes it to an absolute path

🤝 Interfaces:
- Parser: Format-specific parsing

📝 Unknown keys are tolerated and logged at debug level so older and newer
records keep loading.
*/
package config
