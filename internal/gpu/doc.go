// Package gpu records glyph draws through the gogpu HAL.
//
// TextPipeline owns everything shared by all texts: the two shader
// variants, bind group layouts, the render pipelines, the sampler, the unit
// quad and the projection uniform. PageTextures mirrors one atlas into R8
// textures and is the atlas.Uploader handed to it. TextBuffers holds the
// instance, UV and settings buffers of one text.
//
// Nothing here owns a render pass. RecordDraws appends to a pass begun by
// the host application.
package gpu
