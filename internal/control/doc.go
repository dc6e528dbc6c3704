// Package control turns one frame of pointer and keyboard input into a
// view state update.
//
// Window front ends collect an [Input] per frame and write the result of
// [Apply] back in a single batch:
//
//	reg.Update(func(v renderstate.ViewState) renderstate.ViewState {
//		return control.Apply(v, in, scene)
//	})
//
// [Pan] is shared with the terminal viewer, which moves the origin one key
// press at a time.
package control
