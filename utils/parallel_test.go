package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestGroupWorkParallel(t *testing.T) {
	for _, total := range []int{0, 1, 3, ParallelFactor, ParallelFactor*3 + 1, 1000} {
		visited := make([]int32, total)
		var groups int
		err := GroupWorkParallel(
			context.Background(),
			total,
			func(numGroups int) { groups = numGroups },
			func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
				return func(memberNum, workNum int) {
					atomic.AddInt32(&visited[workNum], 1)
				}, nil
			},
		)
		test.That(t, err, test.ShouldBeNil)
		if total > 0 {
			test.That(t, groups, test.ShouldBeGreaterThan, 0)
			test.That(t, groups, test.ShouldBeLessThanOrEqualTo, ParallelFactor)
		}
		for _, v := range visited {
			test.That(t, v, test.ShouldEqual, 1)
		}
	}
}

func TestGroupWorkParallelPanic(t *testing.T) {
	err := GroupWorkParallel(
		context.Background(),
		10,
		nil,
		func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				if workNum == 9 {
					panic("bad item")
				}
			}, nil
		},
	)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad item")
}

func TestGroupWorkParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32
	err := GroupWorkParallel(
		ctx,
		100,
		nil,
		func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				atomic.AddInt32(&calls, 1)
			}, nil
		},
	)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, calls, test.ShouldEqual, 0)
}

func TestGroupWorkParallelN(t *testing.T) {
	for _, maxWorkers := range []int{1, 2, 5} {
		visited := make([]int32, 100)
		var groups int
		err := GroupWorkParallelN(
			context.Background(),
			maxWorkers,
			100,
			func(numGroups int) { groups = numGroups },
			func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
				return func(memberNum, workNum int) {
					atomic.AddInt32(&visited[workNum], 1)
				}, nil
			},
		)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, groups, test.ShouldEqual, maxWorkers)
		for _, v := range visited {
			test.That(t, v, test.ShouldEqual, 1)
		}
	}

	var groups int
	err := GroupWorkParallelN(
		context.Background(),
		0,
		1000,
		func(numGroups int) { groups = numGroups },
		func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) { return nil, nil },
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, groups, test.ShouldEqual, ParallelFactor)
}
