// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ceed provides the public API of the backend runtime.
//
// A Context is created from a resource string such as "/cpu/self" or
// "/cpu/self/opt/blocked". The process-wide registry resolves the resource
// to the highest priority backend sharing its root, and every object created
// through the Context dispatches to that backend or to the Context it
// delegates to.
//
// Example:
//
//	import "github.com/born-ml/ceed/ceed"
//
//	func main() {
//	    c, err := ceed.Init("/cpu/self")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer c.Destroy()
//
//	    v, _ := c.VectorCreate(10)
//	    defer v.Destroy()
//	    _ = v.SetValue(1)
//	}
//
// Custom backends are added to a dedicated registry created with NewRegistry,
// or to the default registry through Register before the first Init.
package ceed
