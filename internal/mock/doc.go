/*
Package mock contains mock implementations of ownkit interfaces, intended
for use in unit-tests.

Mocks of interfaces defined in ownkit are located under `./mem/...`; the
directory structure mirrors that of the root-level `mem/` path. They are
generated with mockgen from the `//go:generate` directive next to the
interface definition.

The package name of all mock implementations follows the `mock_*` pattern,
where `*` is the original package name.  For example, the mock of
`mem/alloc.Allocator` lives in `./mem/alloc` as package `mock_alloc`.
*/
package mock
