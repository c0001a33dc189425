// Package host is a small evaluation host that drives a build check session
// from project fixtures.
//
// A fixture describes each project as an ordered list of property and item
// elements. The host evaluates them the way a build engine would at a much
// smaller scale: $(Name) references are expanded, simple conditions are
// evaluated, and every read, write and parsed item is reported as a typed
// event to the session. Projects are evaluated in parallel.
//
// Example fixture:
//
//	projects:
//	  - path: src/app/app.proj
//	    globalProperties:
//	      Configuration: Release
//	    properties:
//	      - name: OutputPath
//	        value: bin/$(Configuration)
//	      - name: DefineConstants
//	        value: TRACE
//	        condition: "'$(Configuration)' == 'Debug'"
//	    items:
//	      - type: Reference
//	        include: ../lib/Legacy.dll
package host
