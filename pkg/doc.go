// Package pkg provides the libraries behind the requirements tool.
//
// # Overview
//
// requirements computes the transitive closure of Python requirement
// specifiers, orders it so that every distribution follows its
// dependencies, and pins each name to a version. The pkg directory is
// organized into these areas:
//
//  1. [requirement] - Specifier parsing, markers and project locations
//  2. [deps] - Registries, requirement sources, closure collection,
//     ordering and formatting; [deps/python] implements them for Python
//  3. [pipeline] - Orchestration (inputs → closure → ordered lines)
//  4. [dag], [render/nodelink], [io] - The closure as a graph
//  5. [cache], [integrations] - Response caching and index clients
//  6. [errors], [observability], [buildinfo], [httputil] - Shared plumbing
//
// # Architecture
//
// The typical data flow:
//
//	specifiers, requirement files, project directories
//	         ↓
//	    [requirement] Normalizer (parse or locate)
//	         ↓
//	    [deps] Collect (closure walk over a Registry)
//	         ↓
//	    [deps] Order + Formatter
//	         ↓
//	    name==version lines
//
// # Quick Start
//
//	import (
//	    "github.com/enorganic/requirements/pkg/deps/python"
//	    "github.com/enorganic/requirements/pkg/pipeline"
//	)
//
//	ip, err := python.Probe(ctx, nil, "python3")
//	if err != nil {
//	    return err
//	}
//	reg := python.NewSiteRegistry(ip, &python.Installer{})
//	runner := pipeline.NewRunner(reg, nil, nil, logger)
//	runner.Locator = &python.ProjectLocator{}
//	runner.Sources = python.Sources()
//	res, err := runner.Freeze(ctx, pipeline.DefaultOptions("."))
//
// [requirement]: github.com/enorganic/requirements/pkg/requirement
// [deps]: github.com/enorganic/requirements/pkg/deps
// [deps/python]: github.com/enorganic/requirements/pkg/deps/python
// [pipeline]: github.com/enorganic/requirements/pkg/pipeline
// [dag]: github.com/enorganic/requirements/pkg/dag
// [render/nodelink]: github.com/enorganic/requirements/pkg/render/nodelink
// [io]: github.com/enorganic/requirements/pkg/io
// [cache]: github.com/enorganic/requirements/pkg/cache
// [integrations]: github.com/enorganic/requirements/pkg/integrations
// [errors]: github.com/enorganic/requirements/pkg/errors
// [observability]: github.com/enorganic/requirements/pkg/observability
// [buildinfo]: github.com/enorganic/requirements/pkg/buildinfo
// [httputil]: github.com/enorganic/requirements/pkg/httputil
package pkg
