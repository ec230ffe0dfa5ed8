// Package builder turns annotated classes into form specifications and live
// form trees.
//
// A Builder reads metadata through an annotation.Provider, assembles a
// spec.ElementSpec tree (merging class hierarchies, ordering children,
// composing nested classes and deriving the parallel validation tree), and
// realizes that tree into form and inputfilter objects.
//
//	b := builder.New(builder.WithPreserveDefinedOrder(true))
//	f, err := b.CreateForm(&accounts.Signup{})
//	if err != nil {
//		return err
//	}
//	username, _ := f.Get("username")
//
// Every call works on its own state; a Builder may be shared between
// goroutines.
package builder
