// Package procnet is an execution kernel for compiled, persistent-state
// dataflow processes that communicate exclusively through typed, identified
// channels.
//
// A process network declares channels (streaming FIFO or single-value
// latched, each with a fixed payload width) and processes. Each process body
// is compiled once into an invocable function; the runtime drives repeated
// activations ("ticks") of that function, mediating every channel op through
// per-channel queues and preserving the single deterministic op order the
// body's token chain encodes.
//
// End-users typically interact with the kernel via the Service façade:
//
//	srv := procnet.New()
//	net, _ := srv.LoadNetwork(ctx, "network.yaml")
//	rt, _ := srv.NewRuntime(net)
//	in, _ := rt.Queue(0)
//	_ = in.Send(channel.EncodeUint(7, 4))
//	_ = rt.Tick(ctx, "the_proc")
//
// For more details see the individual sub-packages.
package procnet
