// Package ceed implements backend registration, resource resolution and
// per-Context method dispatch.
//
// A Registry holds backends as (prefix, init function, priority) entries.
// Registry.Init resolves a resource string such as "/cpu/self/opt/serial" to
// one backend and lets it populate a fresh Context (Ceed): backend data, an
// optional delegate Context, and a dispatch table keyed by (class, method).
//
// Bound objects (Vector, ElemRestriction, Basis, TensorContract, QFunction)
// are created within a Context and dispatch every operation through it. A
// method missing from a Context is looked up along its delegate chain, so a
// backend only implements what it accelerates:
//
//	func initFast(resource string, c *ceed.Ceed) error {
//	    ref, err := c.Init("/cpu/self/ref/serial")
//	    if err != nil {
//	        return err
//	    }
//	    if err := c.SetDelegate(ref); err != nil {
//	        return err
//	    }
//	    if err := ref.Destroy(); err != nil {
//	        return err
//	    }
//	    return c.SetBackendFunction(ceed.ClassCeed, "TensorContractCreate", createFastContract)
//	}
//
// Dispatch tables are sealed when init returns and are read-only afterwards,
// so concurrent dispatch on one Context needs no locking. Bound objects are
// not safe for concurrent use.
package ceed
