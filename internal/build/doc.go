// Package build runs the blog build: load the corpus, emit the derived artifacts and copy
// the corpus into the public directory. All entry points (build and watch commands, tests)
// go through Service.
package build
