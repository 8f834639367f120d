// Package deps computes, orders and pins the transitive requirements of a
// set of Python distributions.
//
// # Overview
//
// A freeze runs in three steps, each with its own entry point:
//
//  1. [Collect] walks the requirements of the roots through a [Registry]
//     and returns a [Closure]: every transitively required name, once, in
//     first-seen order.
//  2. [Order] arranges the names alphabetically, in dependency order
//     (dependencies first, cycles broken alphabetically), or in discovery
//     order.
//  3. [Formatter] renders "name==version" lines, leaving names that match
//     a no-version pattern unpinned.
//
// # Registries
//
// A [Registry] separates pure lookups ([Registry.Resolve]) from installs
// ([Registry.EnsureAvailable]). The collector calls EnsureAvailable at most
// once per missing name and retries the lookup once; a name that is still
// missing fails the walk with an [errors.UnresolvedDependencyError] that
// carries the requirement path from the root.
//
// Implementations live in [python] (installed site-packages and PyPI);
// [MemoryRegistry] is an in-memory registry for tests and embedding.
//
// # Exclusions
//
// [Options.ExcludeRecursive] names are never expanded and never emitted.
// [Options.Exclude] names are only removed from the output: their own
// requirements are still discovered. The builtin "distribute" is always
// recursively excluded.
//
// # Requirement Sources
//
// [Source] implementations read requirement strings from files such as
// requirements.txt, setup.cfg, tox.ini, pyproject.toml and conda
// environment files. [ReadSpecifiers] reads several files and deduplicates
// the result.
//
// [python]: github.com/enorganic/requirements/pkg/deps/python
// [errors.UnresolvedDependencyError]: github.com/enorganic/requirements/pkg/errors.UnresolvedDependencyError
package deps
