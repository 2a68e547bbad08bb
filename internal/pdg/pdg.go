// Package pdg maps PDG Monte Carlo particle numbers to printable names.
package pdg

import "strconv"

var names = map[int]string{
	1: "d", 2: "u", 3: "s", 4: "c", 5: "b", 6: "t",
	11: "e-", -11: "e+", 12: "nu_e",
	13: "mu-", -13: "mu+", 14: "nu_mu",
	15: "tau-", -15: "tau+", 16: "nu_tau",
	21: "g", 22: "gamma", 23: "Z0",
	24: "W+", -24: "W-",
	25: "h0", 35: "H0", 36: "A0",
	37: "H+", -37: "H-",
	111: "pi0", 211: "pi+", -211: "pi-",
	113: "rho0", 213: "rho+", -213: "rho-",
	221: "eta", 223: "omega", 331: "eta'", 333: "phi",
	130: "K_L0", 310: "K_S0", 311: "K0",
	321: "K+", -321: "K-",
	411: "D+", -411: "D-", 421: "D0", 431: "D_s+", -431: "D_s-",
	511: "B0", 521: "B+", -521: "B-", 531: "B_s0",
	443: "J/psi", 553: "Upsilon",
	2112: "n0", 2212: "p+", -2212: "p-",
	3122: "Lambda0", 3112: "Sigma-", 3222: "Sigma+", 3212: "Sigma0",
	3312: "Xi-", 3322: "Xi0", 3334: "Omega-",
	1000022: "chi_10", 1000023: "chi_20", 1000024: "chi_1+", -1000024: "chi_1-",
	1000021: "~g", 1000006: "~t_1", 1000015: "~tau_1-", -1000015: "~tau_1+",
}

// Name returns the conventional name of a particle. Antiparticles without a
// dedicated entry are named with a "~" prefix; unknown ids are returned as
// their decimal string.
func Name(pid int) string {
	if n, ok := names[pid]; ok {
		return n
	}
	if pid < 0 {
		if n, ok := names[-pid]; ok {
			return "~" + n
		}
	}
	return strconv.Itoa(pid)
}
