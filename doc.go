/*
Package imagestack manages an ordered, disk-backed sequence of same-sized,
same-bitdepth images as a single logical stack without holding all images
in memory.

A stack is one flat directory of encoded image files sharing an extension,
named img0000.png, img0001.png, etc.  The stack never tracks membership
independently of the filesystem: every query re-enumerates the directory,
so the filesystem remains the source of truth even if members are removed
externally.

Subpackages:

	istack   core image container, codecs, serialization, logging, config
	storage  flat-directory file store and deterministic glob enumeration
	stack    stack manager, snapshot iterators, streaming sum/mean
	movie    colormap tables and movie-frame assembly

Iteration is lazy and snapshot-based: an iterator captures the ordered file
list at creation and decodes one member per Next() call.  Aggregation
promotes every member to float64 before accumulation so repeated addition
cannot overflow the member bitdepth's native integer range.

The stack assumes a single writer.  The append counter is process-local
state with no cross-process coordination; two managers pointed at the same
directory will race and can produce colliding filenames.  Concurrent
external modification of the backing directory during an in-flight
iteration is unsupported: a member deleted after iterator creation causes
that member's decode to fail rather than being silently skipped.
*/
package imagestack
