// Package keyboard routes serialized input events from the sandboxed
// surface back into the host input system and manages menu accelerator
// suppression while the surface holds focus.
package keyboard
