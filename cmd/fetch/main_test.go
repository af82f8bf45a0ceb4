package main

import "testing"

func TestResolveTimeout(t *testing.T) {
    cases := []struct {
        name    string
        flagVal int
        cfgVal  int
        want    int
    }{
        {"flag wins over config", 20, 10, 20},
        {"config survives when flag unset", 0, 10, 10},
        {"floor when nothing set", 0, 0, 15},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := resolveTimeout(tc.flagVal, tc.cfgVal); got != tc.want {
                t.Fatalf("resolveTimeout(%d, %d) = %d, want %d", tc.flagVal, tc.cfgVal, got, tc.want)
            }
        })
    }
}
