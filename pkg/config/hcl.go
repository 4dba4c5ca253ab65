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

package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. The home variable holds the user's
// home directory, so base_path = "${home}/db" works.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "db.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home": cty.StringVal(pathutil.ExpandHome("~")),
		},
	}

	type hclConfig struct {
		BasePath       string              `hcl:"base_path"`
		Directories    []string            `hcl:"directories,optional"`
		CreatedAt      string              `hcl:"created_at,optional"`
		Subdirectories map[string][]string `hcl:"subdirectories,optional"`
		IgnorePatterns []string            `hcl:"ignore_patterns,optional"`
		Remain         hcl.Body            `hcl:",remain"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	if hclCfg.Remain != nil {
		if attrs, _ := hclCfg.Remain.JustAttributes(); len(attrs) > 0 {
			keys := make([]string, 0, len(attrs))
			for name := range attrs {
				keys = append(keys, name)
			}
			zerolog.Ctx(ctx).Debug().Strs("keys", keys).Msg("ignoring unknown config keys")
		}
	}

	return &Config{
		BasePath:       hclCfg.BasePath,
		Directories:    hclCfg.Directories,
		CreatedAt:      hclCfg.CreatedAt,
		Subdirectories: hclCfg.Subdirectories,
		IgnorePatterns: hclCfg.IgnorePatterns,
	}, nil
}
