// Package pkg provides the libraries behind figlayout.
//
// # Overview
//
// figlayout keeps a figure (marks, axes, scales, legend) consistent with its
// container while marks are created asynchronously and the container is
// resized. The pkg directory is organized leaves first:
//
//  1. [aspect], [scale], [padding], [legend] - pure layout building blocks
//  2. [scene] - the retained node tree figures draw into, with SVG and DOT sinks
//  3. [figure] - the figure actor: model, mark lifecycle and relayout
//  4. [marks] - scatter, axis and crosshair views built on the figure contracts
//  5. [figfile] - TOML/JSON figure documents
//  6. [pipeline], [cache] - document to settled layout to artifacts, cached
//  7. [errors], [observability], [buildinfo] - shared infrastructure
//
// # Data Flow
//
//	figure document (TOML/JSON)
//	         ↓
//	    [figfile] package (parse, default, validate, build)
//	         ↓
//	    [figure] package (materialize marks, aggregate padding, relayout)
//	         ↓
//	    [pipeline] package (settle, capture layout, render)
//	         ↓
//	    SVG/JSON/DOT output
//
// # Quick Start
//
//	doc, err := figfile.Load("iris.toml")
//	if err != nil {
//	    return err
//	}
//	fig, built, err := doc.Open()
//	if err != nil {
//	    return err
//	}
//	defer fig.Close()
//
//	fig.Display(800, 600)
//	if err := fig.Settle(ctx); err != nil {
//	    return err
//	}
//	layout := pipeline.Capture(fig, built)
package pkg
