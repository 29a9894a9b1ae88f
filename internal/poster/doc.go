// Package poster renders the 1080x1350 calendar poster.
//
// Rendering is split in two: Layout computes a Plan (every rectangle and text line with its
// position) from a Job without touching pixels, and Render paints that Plan and encodes it as
// PNG. Layout is pure, so placement rules such as the reserved bottom-right code area can be
// checked without decoding images.
//
// Assets are optional. A missing banner starts the header at a fixed margin, a missing corner
// image frees its rectangle, and a missing or broken font falls back to basicfont.Face7x13.
package poster
