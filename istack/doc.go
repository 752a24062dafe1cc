/*
Package istack provides the core types shared across the imagestack
packages: the Image union container and its codecs, binary serialization
with optional compression and checksum, the error taxonomy for stack
operations, leveled logging over a rotating file, TOML configuration,
and optional kafka activity publishing.
*/
package istack
