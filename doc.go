// Package sdftext renders text on the GPU from a shared glyph atlas.
//
// # Overview
//
// A Renderer draws into render passes owned by the host application. Fonts
// are loaded either for raw rendering, where the atlas stores coverage, or
// for signed distance field rendering, where it stores distances and text
// can be scaled and outlined cheaply. Glyphs are rasterized the first time a
// string needs them, packed into atlas pages and reused by every later text.
// Each text is drawn with one instanced draw per atlas page it touches.
//
// # Quick Start
//
//	r, err := sdftext.NewRendererFromProvider(provider, sdftext.WithSize(800, 600))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	font, err := r.LoadFontWithSDF(goregular.TTF, sdftext.Pt(24), sdf.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	hello, err := r.CreateText(font, "Hello, world",
//	    sdftext.WithPosition(20, 40),
//	    sdftext.WithColor([4]float32{1, 1, 1, 1}),
//	    sdftext.WithOutline([4]float32{0, 0, 0, 1}, 2))
//	if err != nil {
//	    return err
//	}
//
//	// Every frame:
//	r.BeginFrame()
//	if err := r.Draw(pass, hello); err != nil {
//	    return err
//	}
//
// # Frames and Eviction
//
// When the atlas is full, glyphs not drawn in the current frame are evicted
// in least recently used order. Call BeginFrame once per frame so glyphs of
// texts no longer on screen become reclaimable. Texts whose glyphs were
// evicted are rebuilt transparently by Draw.
//
// # Coordinate System
//
// Positions are in pixels with the origin at the top-left corner of the
// target and y increasing downward. A text's position is the pen position
// on its first baseline, adjusted by its alignment.
//
// # Logging
//
// The package is silent by default. See SetLogger.
package sdftext
