// Package suggest runs suggestion providers and delivers their results.
//
// A [Provider] proposes entities related to a hub by querying one external
// data source. Providers are installed in a [Registry] under a unique name
// and a menu group; [Registry.Descriptors] recomputes, for a given hub,
// which of them apply.
//
// A [Dispatcher] runs one provider for one hub in the background:
//
//	reg := suggest.NewRegistry()
//	reg.Register("kegg-enzymes-by-gene", "KEGG", kegg.EnzymesByGene(client, resolver))
//
//	d := suggest.NewDispatcher(reg, sink, suggest.Options{Logger: logger})
//	defer d.Close()
//
//	h, err := d.Dispatch(ctx, "kegg-enzymes-by-gene", hub)
//	...
//	h.Cancel()
//
// Every dispatch ends in exactly one terminal [Outcome] (Completed, Failed
// or Cancelled) which is handed to the [Sink] from a single delivery
// goroutine, in the order the outcomes were reached. A result that arrives
// after the caller cancelled is discarded.
package suggest
