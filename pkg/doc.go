// Package pkg provides the core libraries of ifcqto, a quantity takeoff
// for building-model element graphs.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Engine - [ifc] (element graph), [quantity] (volumes and areas),
//     [material] (fraction apportionment), [takeoff] (element records)
//  2. Orchestration - [pipeline] (parallel runs, caching, QTO messages),
//     [io] (JSON import, JSON and XLSX export)
//  3. Infrastructure - [cache], [store], [publish], [config], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	element graph document (JSON)
//	         ↓
//	    [io] package (decode into an ifc.Model)
//	         ↓
//	    [pipeline] package (select target classes, shard across workers)
//	         ↓
//	    [takeoff] package (volume, area, material shares per element)
//	         ↓
//	JSON / XLSX / QTO message ([store], [publish])
//
// # Quick Start
//
//	m, err := io.ImportModel("house.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, m, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	return io.ExportXLSX("house.xlsx", io.XLSXSheet{Title: "House", Elements: result.Elements})
//
// A single element can be computed without a runner:
//
//	q := takeoff.ComputeElementQuantities(el)
//	fmt.Println(q.Volume.Net, q.Area, q.MaterialVolumes.Names())
//
// [ifc]: github.com/matzehuels/ifcqto/pkg/ifc
// [quantity]: github.com/matzehuels/ifcqto/pkg/quantity
// [material]: github.com/matzehuels/ifcqto/pkg/material
// [takeoff]: github.com/matzehuels/ifcqto/pkg/takeoff
// [pipeline]: github.com/matzehuels/ifcqto/pkg/pipeline
// [io]: github.com/matzehuels/ifcqto/pkg/io
// [cache]: github.com/matzehuels/ifcqto/pkg/cache
// [store]: github.com/matzehuels/ifcqto/pkg/store
// [publish]: github.com/matzehuels/ifcqto/pkg/publish
// [config]: github.com/matzehuels/ifcqto/pkg/config
// [errors]: github.com/matzehuels/ifcqto/pkg/errors
// [observability]: github.com/matzehuels/ifcqto/pkg/observability
// [buildinfo]: github.com/matzehuels/ifcqto/pkg/buildinfo
package pkg
