// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package definitions

const (
	RootBucket = `root`
	RuleBucket = `RuleBucket`
	RootUser   = `RootUser`
	AdminHash  = `AdminHash`
)

var (
	RootBucketBytes = []byte(RootBucket)
	RuleBucketBytes = []byte(RuleBucket)
	RootUserBytes   = []byte(RootUser)
	AdminHashBytes  = []byte(AdminHash)
)
